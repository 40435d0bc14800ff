package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/domain/services"
	"secret-agents-service/internal/domain/services/container"
	"secret-agents-service/internal/error/code"
	"secret-agents-service/internal/error/response"
	"secret-agents-service/internal/infrastructure/database"
	Logger "secret-agents-service/pkg/logger"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
	}
}

// Ping 存活检查
func (h *HealthCheckController) Ping() {
	response.Success(h.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 检查数据库和缓存的可用性
func (h *HealthCheckController) Status() {
	ctx, cancel := context.WithTimeout(h.Ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	pool := h.Container.GetService("pool").(*database.ConnectionPool)
	if err := pool.HealthCheck(ctx); err != nil {
		Logger.Error("数据库健康检查失败: %v", err)
		response.Fail(h.Ctx, code.ErrDatabaseUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "down",
		})
		return
	}

	stats, err := pool.Stats()
	if err != nil {
		Logger.Warning("获取连接池状态失败: %v", err)
	}

	response.Success(h.Ctx, gin.H{
		"status":   "healthy",
		"database": "up",
		"pool":     stats,
		"cache":    h.cacheStatus(ctx),
	})
}

func (h *HealthCheckController) cacheStatus(ctx context.Context) string {
	cache, _ := h.Container.GetService("cache").(services.InterfaceCacheService)
	if cache == nil {
		return "disabled"
	}
	if err := cache.Ping(ctx); err != nil {
		Logger.Warning("缓存健康检查失败: %v", err)
		return "down"
	}
	return "up"
}

// HandleHealthFunc 返回一个处理健康检查请求的函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			response.FailWithMessage(ctx, code.ErrValidation, "无效的方法", nil)
		}
	}
}

