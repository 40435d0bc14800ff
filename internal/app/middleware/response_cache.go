package middleware

import (
	"bytes"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheStatusHeader 标记响应是否来自缓存
const CacheStatusHeader = "X-Cache"

type cachedResponse struct {
	contentType string
	body        []byte
	expiration  time.Time
}

// ResponseCache 缓存 GET 请求的成功响应
type ResponseCache struct {
	ttl   time.Duration
	items map[string]cachedResponse
	mu    sync.RWMutex
	now   func() time.Time
}

// NewResponseCache 创建响应缓存
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		ttl:   ttl,
		items: make(map[string]cachedResponse),
		now:   time.Now,
	}
}

// cacheKey 路径加排序后的查询参数
func cacheKey(c *gin.Context) string {
	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(c.Request.URL.Path)
	b.WriteByte('?')
	for _, key := range keys {
		values := query[key]
		sort.Strings(values)
		for _, v := range values {
			b.WriteString(key + "=" + v + "&")
		}
	}
	return b.String()
}

// Middleware 返回缓存中间件
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		now := rc.now()

		rc.mu.RLock()
		entry, found := rc.items[key]
		rc.mu.RUnlock()

		if found && entry.expiration.After(now) {
			c.Header(CacheStatusHeader, "HIT")
			c.Data(http.StatusOK, entry.contentType, entry.body)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Header(CacheStatusHeader, "MISS")

		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		rc.mu.Lock()
		rc.items[key] = cachedResponse{
			contentType: writer.Header().Get("Content-Type"),
			body:        writer.body.Bytes(),
			expiration:  now.Add(rc.ttl),
		}
		// 顺带清理过期条目
		for k, e := range rc.items {
			if !e.expiration.After(now) {
				delete(rc.items, k)
			}
		}
		rc.mu.Unlock()
	}
}

// Purge 清除全部缓存
func (rc *ResponseCache) Purge() {
	rc.mu.Lock()
	rc.items = make(map[string]cachedResponse)
	rc.mu.Unlock()
}

// Len 缓存条目数量
func (rc *ResponseCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.items)
}

// Cache 按 TTL 缓存 GET 响应
func Cache(ttl time.Duration) gin.HandlerFunc {
	return NewResponseCache(ttl).Middleware()
}

// bodyCaptureWriter 同时写入原始响应和缓冲区
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
