package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	sugared = base.Sugar()
)

// Options 日志配置
type Options struct {
	Environment string // development, production
	Level       string // debug, info, warn, error
	Format      string // console, json
	Dir         string // 为空时只输出到控制台
}

// SetupLogger 初始化日志配置
func SetupLogger(opts Options) error {
	var cfg zap.Config
	if opts.Environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))

	if opts.Format == "json" {
		cfg.Encoding = "json"
	} else {
		cfg.Encoding = "console"
	}

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	// 同时输出到控制台和按日期命名的日志文件
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}
		logFile := filepath.Join(opts.Dir, time.Now().Format("2006-01-02")+".log")
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}

	l, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	mu.Lock()
	base = l
	sugared = l.Sugar()
	mu.Unlock()

	zap.ReplaceGlobals(l)
	return nil
}

// L 返回结构化日志记录器
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.WithOptions(zap.AddCallerSkip(-1))
}

// Sync flushes any buffered log entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// Debug 记录调试级别的日志
func Debug(format string, v ...interface{}) {
	sugar().Debugf(format, v...)
}

// Info 记录信息级别的日志
func Info(format string, v ...interface{}) {
	sugar().Infof(format, v...)
}

// Warning 记录警告级别的日志
func Warning(format string, v ...interface{}) {
	sugar().Warnf(format, v...)
}

// Error 记录错误级别的日志
func Error(format string, v ...interface{}) {
	sugar().Errorf(format, v...)
}

func sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugared
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
