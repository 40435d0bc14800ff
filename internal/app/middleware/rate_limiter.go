package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"secret-agents-service/internal/error/response"
	Logger "secret-agents-service/pkg/logger"
)

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate          float64                   // 每秒允许的请求数
	Burst         int                       // 允许的突发请求数
	ExpiryTime    time.Duration             // 空闲多久后移除限流器
	SweepInterval time.Duration             // 清理间隔
	KeyFunc       func(*gin.Context) string // 限流键，默认为客户端IP
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:          5,
	Burst:         10,
	ExpiryTime:    10 * time.Minute,
	SweepInterval: time.Minute,
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterStore 按键保存令牌桶
type LimiterStore struct {
	cfg      RateLimiterConfig
	visitors map[string]*visitor
	mu       sync.Mutex
	now      func() time.Time
}

// NewLimiterStore 创建限流器表
func NewLimiterStore(cfg RateLimiterConfig) *LimiterStore {
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultRateLimiterConfig.SweepInterval
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return &LimiterStore{
		cfg:      cfg,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow 判断该键是否还有令牌
func (s *LimiterStore) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(s.cfg.Rate), s.cfg.Burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Sweep 移除空闲超过 ExpiryTime 的限流器，返回移除数量
func (s *LimiterStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.cfg.ExpiryTime)
	removed := 0
	for key, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, key)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的键数量
func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// StartSweeper 定期清理空闲的限流器，关闭 stop 后退出，返回的通道在协程退出时关闭
func (s *LimiterStore) StartSweeper(stop <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					Logger.Debug("清理空闲限流器 %d 个", n)
				}
			case <-stop:
				return
			}
		}
	}()
	return done
}

// Middleware 返回使用该限流器表的中间件
func (s *LimiterStore) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.Allow(s.cfg.KeyFunc(c)) {
			Logger.Warning("请求频率过高: %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}

// RateLimiter 创建限流中间件，stop 关闭后停止后台清理
func RateLimiter(stop <-chan struct{}, config ...RateLimiterConfig) gin.HandlerFunc {
	cfg := DefaultRateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	store := NewLimiterStore(cfg)
	store.StartSweeper(stop)
	return store.Middleware()
}

// IPRateLimiter 按IP限流
func IPRateLimiter(stop <-chan struct{}, rps float64, burst int) gin.HandlerFunc {
	return RateLimiter(stop, RateLimiterConfig{
		Rate:  rps,
		Burst: burst,
	})
}
