package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/app/controllers"
	"secret-agents-service/internal/app/middleware"
	"secret-agents-service/internal/app/views"
	"secret-agents-service/internal/domain/services"
	"secret-agents-service/internal/domain/services/container"
	"secret-agents-service/internal/error/response"
	"secret-agents-service/internal/infrastructure/config"
	"secret-agents-service/internal/infrastructure/database"
)

// 健康检查结果缓存时间
const healthCacheTTL = 2 * time.Second

// SetupRouter 初始化并返回配置好的路由，cache 为 nil 时不使用缓存
// ctx 结束后停止路由持有的后台任务
func SetupRouter(ctx context.Context, pool *database.ConnectionPool, cfg *config.Config, cache services.InterfaceCacheService) *gin.Engine {
	// 初始化 Gin
	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())

	// 模板和静态资源
	r.SetHTMLTemplate(views.MustTemplates())
	r.StaticFS("/static", views.Static())

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(pool, cfg, cache)

	// 注册路由
	registerRoutes(ctx, r, serviceContainer, cfg)
	return r
}

// registerRoutes 配置所有路由
func registerRoutes(
	ctx context.Context,
	r *gin.Engine,
	container *container.ServiceContainer,
	cfg *config.Config,
) {
	// JSON 接口，不需要会话
	registerAPIRoutes(r, container)

	// 页面路由
	pages := r.Group("/")
	pages.Use(middleware.Sessions(cfg))
	pages.Use(middleware.CSRF())
	registerPageRoutes(ctx, pages, container, cfg)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Page not found")
	})
}

// registerAPIRoutes 注册健康检查和代号建议接口
func registerAPIRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	r.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	r.GET("/health", middleware.Cache(healthCacheTTL), controllers.HandleHealthFunc(container, "status"))
	r.GET("/codename/suggest", controllers.HandleCodenameFunc("suggest"))
}

// registerPageRoutes 注册特工档案页面
func registerPageRoutes(
	ctx context.Context,
	pages *gin.RouterGroup,
	container *container.ServiceContainer,
	cfg *config.Config,
) {
	pages.GET("/", controllers.HandleAgentFunc(container, "listAgents"))
	pages.GET("/add", controllers.HandleAgentFunc(container, "showAddAgent"))
	pages.GET("/agent/:id", controllers.HandleAgentFunc(container, "viewAgent"))
	pages.GET("/edit/:id", controllers.HandleAgentFunc(container, "showEditAgent"))

	// 写操作按IP限流
	writes := pages.Group("/")
	writes.Use(middleware.IPRateLimiter(ctx.Done(), cfg.RateLimitRPS, cfg.RateLimitBurst))
	writes.POST("/add", controllers.HandleAgentFunc(container, "addAgent"))
	writes.POST("/edit/:id", controllers.HandleAgentFunc(container, "editAgent"))
	writes.POST("/delete/:id", controllers.HandleAgentFunc(container, "deleteAgent"))
	writes.POST("/emergency-wipe", controllers.HandleAgentFunc(container, "emergencyWipe"))
}
