package main

import (
	"context"
	"flag"
	"log"

	"learnhub_backend/internal/app"
	"learnhub_backend/internal/config"
	"learnhub_backend/pkg/configwatcher"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"
	"learnhub_backend/pkg/tracing"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	configPath := flag.String("config", "./configs", "config directory")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learnhub-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracing disabled, collector unreachable", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	if cfg.MigrateOnly {
		if _, err := database.InitDB(&cfg.Database); err != nil {
			logger.Log.Fatal("migration failed", zap.Error(err))
		}
		logger.Log.Info("migration completed, exiting")
		return
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		logger.Log.Fatal("failed to initialize application", zap.Error(err))
	}

	// 配置热更新：目前只对限流等可动态调整的部分生效
	go configwatcher.WatchConfig(*configPath+"/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("config reloaded")
		application.Config.RateLimit = newCfg.RateLimit
		application.Config.CORS = newCfg.CORS
	})

	if err := application.Run(); err != nil {
		logger.Log.Fatal("server exited with error", zap.Error(err))
	}
}
