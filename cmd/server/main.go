package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"secret-agents-service/internal/app/routes"
	"secret-agents-service/internal/domain/services"
	"secret-agents-service/internal/infrastructure/config"
	"secret-agents-service/internal/infrastructure/database"
	Logger "secret-agents-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 加载.env文件，失败时继续使用已有的环境变量
	envErr := godotenv.Load()

	// 获取配置
	cfg := config.GetConfig()

	// 初始化日志配置
	if err := Logger.SetupLogger(Logger.Options{
		Environment: cfg.AppEnv,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Dir:         cfg.LogDir,
	}); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}
	defer Logger.Sync()

	if envErr != nil {
		Logger.Warning("无法加载.env文件: %v", envErr)
	} else {
		Logger.Info("成功加载.env文件")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		Logger.Error("无法创建数据库连接池: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 建表并写入默认访问级别
	if err := database.Bootstrap(context.Background(), pool.GetDB()); err != nil {
		Logger.Error("数据库初始化失败: %v", err)
		os.Exit(1)
	}

	cache, closeCache := initCache(cfg)
	defer closeCache()

	// 初始化路由，服务器关闭后取消后台任务
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()
	r := routes.SetupRouter(appCtx, pool, cfg, cache)

	printSystemInfo(pool, cfg)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		Logger.Info("服务器启动在: http://%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Error("启动服务器失败: %v", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server)
}

// initCache 按配置连接 Redis，不可用时退回到无缓存模式
func initCache(cfg *config.Config) (services.InterfaceCacheService, func()) {
	if !cfg.RedisEnabled {
		return nil, func() {}
	}

	redisService := services.NewRedisService(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisService.Ping(ctx); err != nil {
		Logger.Warning("Redis连接测试失败: %v，将不使用Redis缓存", err)
		_ = redisService.Close()
		return nil, func() {}
	}

	Logger.Info("Redis已连接: %s", cfg.GetRedisAddr())
	return redisService, func() { _ = redisService.Close() }
}

// waitForShutdown 等待退出信号并优雅关闭服务器
func waitForShutdown(server *http.Server) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signalChan
	Logger.Info("收到退出信号: %s", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		Logger.Error("服务器关闭失败: %v", err)
		return
	}
	Logger.Info("服务器已关闭")
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool, cfg *config.Config) {
	Logger.Info("运行环境: %s, 数据库驱动: %s", cfg.AppEnv, cfg.DBDriver)

	stats, err := pool.Stats()
	if err == nil {
		Logger.Info("数据库连接池状态: %+v", stats)
	}

	Logger.Info("系统CPU核心数: %d, 当前Go协程数: %d", runtime.NumCPU(), runtime.NumGoroutine())
}
