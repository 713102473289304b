package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/controller"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"
	"learnhub_backend/pkg/security"
	"learnhub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type repositories struct {
	User        *repository.UserRepository
	Course      *repository.CourseRepository
	Lesson      *repository.LessonRepository
	Enrollment  *repository.EnrollmentRepository
	Progress    *repository.ProgressRepository
	Certificate *repository.CertificateRepository
	Chat        *repository.ChatRepository
	Analytics   *repository.AnalyticsRepository
}

type services struct {
	Auth        *service.AuthService
	User        *service.UserService
	Course      *service.CourseService
	Lesson      *service.LessonService
	Progress    *service.ProgressService
	Certificate *service.CertificateService
	Analytics   *service.AnalyticsService
	Chat        *service.ChatService
	Storage     service.StorageProvider
}

type controllers struct {
	Auth        *controller.AuthController
	User        *controller.UserController
	Course      *controller.CourseController
	Lesson      *controller.LessonController
	Progress    *controller.ProgressController
	Certificate *controller.CertificateController
	Chat        *controller.ChatController
	Upload      *controller.UploadController
	Health      *controller.HealthController
}

type App struct {
	Config      *config.Config
	Router      *gin.Engine
	DB          *gorm.DB
	Redis       *redis.Client
	repos       *repositories
	services    *services
	controllers *controllers
}

func NewApp(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Redis 不可用时降级运行，聊天缓存自动跳过
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		Router: gin.New(),
		DB:     db,
		Redis:  rdb,
	}

	if err := app.wire(); err != nil {
		return nil, err
	}
	app.setupMiddlewares()
	app.setupRoutes()

	return app, nil
}

func (a *App) wire() error {
	repos := &repositories{
		User:        repository.NewUserRepository(a.DB),
		Course:      repository.NewCourseRepository(a.DB),
		Lesson:      repository.NewLessonRepository(a.DB),
		Enrollment:  repository.NewEnrollmentRepository(a.DB),
		Progress:    repository.NewProgressRepository(a.DB),
		Certificate: repository.NewCertificateRepository(a.DB),
		Chat:        repository.NewChatRepository(a.DB, a.Redis),
		Analytics:   repository.NewAnalyticsRepository(a.DB),
	}
	a.repos = repos

	storage, err := service.NewStorageProvider(a.Config)
	if err != nil {
		return err
	}

	svcs := &services{
		Auth:        service.NewAuthService(repos.User, a.Config),
		User:        service.NewUserService(repos.User),
		Course:      service.NewCourseService(repos.Course, repos.Enrollment, repos.User),
		Lesson:      service.NewLessonService(repos.Lesson, repos.Course, repos.Enrollment),
		Progress:    service.NewProgressService(repos.Progress, repos.Lesson, repos.Course, repos.Enrollment, repos.Certificate),
		Certificate: service.NewCertificateService(repos.Certificate),
		Analytics:   service.NewAnalyticsService(repos.Analytics, repos.Course, repos.Lesson),
		Chat:        service.NewChatService(repos.Chat, nil),
		Storage:     storage,
	}
	a.services = svcs

	a.controllers = &controllers{
		Auth:        controller.NewAuthController(svcs.Auth),
		User:        controller.NewUserController(svcs.User),
		Course:      controller.NewCourseController(svcs.Course, svcs.Analytics),
		Lesson:      controller.NewLessonController(svcs.Lesson),
		Progress:    controller.NewProgressController(svcs.Progress),
		Certificate: controller.NewCertificateController(svcs.Certificate),
		Chat:        controller.NewChatController(svcs.Chat),
		Upload:      controller.NewUploadController(svcs.Storage, svcs.User),
		Health:      controller.NewHealthController(a.DB, a.Redis),
	}
	return nil
}

func (a *App) setupMiddlewares() {
	a.Router.Use(gin.Recovery())
	a.Router.Use(security.CORS(a.Config.CORS.AllowedOrigins))
	a.Router.Use(security.Secure())
	a.Router.Use(monitoring.MetricsMiddleware())

	if a.Config.Tracing.Enabled {
		a.Router.Use(tracing.GinMiddleware())
	}

	if a.Config.RateLimit.MaxRequests > 0 {
		a.Router.Use(security.RateLimiter(a.Config.RateLimit.MaxRequests, a.Config.RateLimit.WindowMinutes))
	}

	// 本地存储时直接挂静态目录
	if a.Config.Storage.Type == "" || a.Config.Storage.Type == "local" {
		a.Router.Static("/uploads", a.Config.Storage.LocalPath)
	}
}

// Run 启动 HTTP 服务并等待退出信号，优雅关停
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	if a.Redis != nil {
		a.Redis.Close()
	}
	logger.Log.Info("server stopped")
	return nil
}
