package container

import (
	"sync"

	"gorm.io/gorm"

	"secret-agents-service/internal/domain/services"
	"secret-agents-service/internal/infrastructure/config"
	"secret-agents-service/internal/infrastructure/database"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	pool   *database.ConnectionPool
	config *config.Config
	cache  services.InterfaceCacheService

	// 业务服务
	agentService       services.InterfaceAgentService
	accessLevelService services.InterfaceAccessLevelService
	validationService  services.InterfaceValidationService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器，cache 为 nil 时不使用缓存
func NewServiceContainer(pool *database.ConnectionPool, cfg *config.Config, cache services.InterfaceCacheService) *ServiceContainer {
	if pool == nil || pool.GetDB() == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		pool:   pool,
		config: cfg,
		cache:  cache,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	db := c.pool.GetDB()

	agentService := services.NewAgentService(db)
	accessLevelService := services.NewAccessLevelService(db, c.cache, c.config.AccessLevelCacheTTL)

	c.agentService = agentService
	c.accessLevelService = accessLevelService
	c.validationService = services.NewValidationService(agentService, accessLevelService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.pool.GetDB()
	case "pool":
		return c.pool
	case "cache":
		return c.cache
	case "agent":
		return c.agentService
	case "access_level":
		return c.accessLevelService
	case "validation":
		return c.validationService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool.GetDB()
}

// GetPool 获取连接池
func (c *ServiceContainer) GetPool() *database.ConnectionPool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}
