package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"secret-agents-service/internal/domain/models"
	"secret-agents-service/internal/infrastructure/config"
	"secret-agents-service/internal/infrastructure/database"
)

// NewConfig 返回指向临时 SQLite 文件的测试配置
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:         "test",
		DBDriver:       config.DriverSQLite,
		DBPath:         filepath.Join(t.TempDir(), "agents.db"),
		DBLogLevel:     "silent",
		SessionSecret:  "test-session-secret-0123456789abcdef",
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

// NewPool 创建已完成建表和初始化的连接池，测试结束时关闭
func NewPool(t *testing.T, cfg *config.Config) *database.ConnectionPool {
	t.Helper()

	pool, err := database.NewConnectionPool(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	require.NoError(t, database.Bootstrap(context.Background(), pool.GetDB()))
	return pool
}

// NewDB 创建独立的测试数据库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return NewPool(t, NewConfig(t)).GetDB()
}

// LevelID 按名称查找访问级别ID
func LevelID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var level models.AccessLevel
	require.NoError(t, db.Where("name = ?", name).First(&level).Error)
	return level.ID
}

// CreateAgent 直接写入一条特工记录
func CreateAgent(t *testing.T, db *gorm.DB, codename, email, contact string, levelID uint) *models.Agent {
	t.Helper()
	agent := &models.Agent{
		Codename:      codename,
		Email:         email,
		AccessLevelID: levelID,
	}
	if contact != "" {
		agent.ContactNumber = &contact
	}
	require.NoError(t, db.Create(agent).Error)
	return agent
}
