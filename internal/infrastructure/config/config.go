package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// 支持的数据库驱动
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config stores all configuration of the application
type Config struct {
	// Environment: development, production
	AppEnv string

	// Server
	ServerPort string

	// Database
	DBDriver   string // sqlite(默认) 或 mysql
	DBPath     string // sqlite 数据库文件
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBLogLevel string // gorm 日志级别: silent, error, warn, info

	// Session
	SessionSecret string // 为空时启动时随机生成
	SessionSecure bool

	// Redis 缓存(可选)
	RedisEnabled        bool
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	AccessLevelCacheTTL time.Duration

	// 写操作限流
	RateLimitRPS   float64
	RateLimitBurst int

	// Logging
	LogLevel  string
	LogFormat string
	LogDir    string
}

// LoadConfig loads config from environment variables
func LoadConfig() *Config {
	cfg := &Config{
		AppEnv:     strings.ToLower(getEnv("APP_ENV", "development")),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("DB_PATH", "database.db"),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionSecure: getEnvAsBool("SESSION_SECURE", false),

		RedisEnabled:        getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		AccessLevelCacheTTL: getEnvAsDuration("ACCESS_LEVEL_CACHE_TTL", 10*time.Minute),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogDir:    getEnv("LOG_DIR", ""),
	}

	switch cfg.DBDriver {
	case DriverMySQL:
		// MySQL 连接参数必须显式提供
		cfg.DBHost = getEnvRequired("DB_HOST")
		cfg.DBPort = getEnv("DB_PORT", "3306")
		cfg.DBUser = getEnvRequired("DB_USER")
		cfg.DBPassword = getEnv("DB_PASSWORD", "")
		cfg.DBName = getEnvRequired("DB_NAME")
	case DriverSQLite:
	default:
		fmt.Printf("Warning: Unknown DB_DRIVER '%s', defaulting to sqlite\n", cfg.DBDriver)
		cfg.DBDriver = DriverSQLite
	}

	return cfg
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.DBDriver == DriverMySQL {
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
	}
	return "file:" + c.DBPath + "?_foreign_keys=on&_busy_timeout=5000"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// 要求必须提供环境变量的辅助函数
func getEnvRequired(key string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	panic(fmt.Sprintf("Required environment variable %s is not set", key))
}
