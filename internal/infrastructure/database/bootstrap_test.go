package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"secret-agents-service/internal/domain/models"
	"secret-agents-service/internal/infrastructure/config"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		DBPath:     filepath.Join(t.TempDir(), "bootstrap.db"),
		DBLogLevel: "silent",
	}
	pool, err := NewConnectionPool(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func TestBootstrapSeedsAccessLevelsOnce(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	require.NoError(t, Bootstrap(ctx, pool.GetDB()))
	require.NoError(t, Bootstrap(ctx, pool.GetDB()))

	var levels []models.AccessLevel
	require.NoError(t, pool.GetDB().Order("id").Find(&levels).Error)
	require.Len(t, levels, 3)
	assert.Equal(t, "Confidential", levels[0].Name)
	assert.Equal(t, "Secret", levels[1].Name)
	assert.Equal(t, "Top Secret", levels[2].Name)
}

func TestBootstrapKeepsExistingLevels(t *testing.T) {
	pool := newTestPool(t)
	db := pool.GetDB()
	require.NoError(t, autoMigrate(db))
	require.NoError(t, db.Create(&models.AccessLevel{Name: "Cosmic"}).Error)

	require.NoError(t, Bootstrap(context.Background(), db))

	var count int64
	require.NoError(t, db.Model(&models.AccessLevel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUniqueIndexesRejectDuplicates(t *testing.T) {
	pool := newTestPool(t)
	db := pool.GetDB()
	require.NoError(t, Bootstrap(context.Background(), db))

	var level models.AccessLevel
	require.NoError(t, db.First(&level).Error)

	first := models.Agent{Codename: "FALCON", Email: "falcon@example.com", AccessLevelID: level.ID}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Agent{Codename: "FALCON", Email: "other@example.com", AccessLevelID: level.ID}
	assert.Error(t, db.Create(&dup).Error)

	// 多个 NULL 联系电话互不冲突
	second := models.Agent{Codename: "RAVEN", Email: "raven@example.com", AccessLevelID: level.ID}
	assert.NoError(t, db.Create(&second).Error)
}

func TestForeignKeyRejectsUnknownLevel(t *testing.T) {
	pool := newTestPool(t)
	db := pool.GetDB()
	require.NoError(t, Bootstrap(context.Background(), db))

	orphan := models.Agent{Codename: "ORPHAN", Email: "orphan@example.com", AccessLevelID: 999}
	assert.Error(t, db.Create(&orphan).Error)
}

func TestHealthCheckAndStats(t *testing.T) {
	pool := newTestPool(t)

	assert.NoError(t, pool.HealthCheck(context.Background()))
	stats, err := pool.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats["max_open_connections"])
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, GormLogLevel("silent"))
	assert.Equal(t, logger.Info, GormLogLevel("INFO"))
	assert.Equal(t, logger.Warn, GormLogLevel(""))
}
