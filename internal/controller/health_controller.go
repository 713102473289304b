package controller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Health GET /health 存活 + 依赖探活
func (ctrl *HealthController) Health(c *gin.Context) {
	status := gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	httpStatus := 200

	sqlDB, err := ctrl.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status["database"] = "down"
		status["status"] = "degraded"
		httpStatus = 503
	} else {
		status["database"] = "up"
	}

	if ctrl.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ctrl.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		} else {
			status["redis"] = "up"
		}
	}

	c.JSON(httpStatus, status)
}
