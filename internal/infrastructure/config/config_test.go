package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "database.db", cfg.DBPath)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, 10*time.Minute, cfg.AccessLevelCacheTTL)
	assert.Equal(t, "file:database.db?_foreign_keys=on&_busy_timeout=5000", cfg.GetDSN())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigMySQL(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "agents")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "bureau")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("ACCESS_LEVEL_CACHE_TTL", "30s")

	cfg := LoadConfig()

	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "agents:secret@tcp(db:3306)/bureau?charset=utf8mb4&parseTime=True&loc=Local", cfg.GetDSN())
	assert.Equal(t, "localhost:6380", cfg.GetRedisAddr())
	assert.Equal(t, 30*time.Second, cfg.AccessLevelCacheTTL)
}

func TestLoadConfigMySQLRequiresHost(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "")

	assert.Panics(t, func() { LoadConfig() })
}

func TestLoadConfigUnknownDriverFallsBack(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, float64(5), cfg.RateLimitRPS)
}
