package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestResponseCache(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rc := NewResponseCache(2 * time.Second)
	rc.now = func() time.Time { return now }

	calls := 0
	r := gin.New()
	r.GET("/health", rc.Middleware(), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.GET("/fail", rc.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{})
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	first := get("/health")
	assert.Equal(t, "MISS", first.Header().Get(CacheStatusHeader))

	second := get("/health")
	assert.Equal(t, "HIT", second.Header().Get(CacheStatusHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, 1, calls)

	now = now.Add(3 * time.Second)
	get("/health")
	assert.Equal(t, 2, calls)

	get("/fail")
	assert.Equal(t, "MISS", get("/fail").Header().Get(CacheStatusHeader), "errors are not cached")

	rc.Purge()
	assert.Zero(t, rc.Len())
}
