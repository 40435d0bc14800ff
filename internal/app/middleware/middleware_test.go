package middleware

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secret-agents-service/internal/test/testutil"
)

const testPages = `
{{define "error.html"}}{{.status}} {{.message}}{{end}}
{{define "form.html"}}<form><input type="hidden" name="csrf_token" value="{{.csrf_token}}"></form>{{range .notices}}[{{.Level}}:{{.Message}}]{{end}}{{end}}
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testPages)))
	r.Use(Sessions(testutil.NewConfig(t)), CSRF())

	page := func(c *gin.Context) {
		c.HTML(http.StatusOK, "form.html", gin.H{
			"csrf_token": CSRFToken(c),
			"notices":    PopNotices(c),
		})
	}
	r.GET("/add", page)
	r.GET("/", page)
	r.POST("/submit", func(c *gin.Context) {
		AddNotice(c, NoticeSuccess, "saved")
		c.Redirect(http.StatusFound, "/")
	})
	r.POST("/inline", func(c *gin.Context) {
		AddNotice(c, NoticeWarning, "careful")
		page(c)
	})
	return r
}

func TestCSRFRejectsMissingOrWrongToken(t *testing.T) {
	client := testutil.NewClient(t, newTestRouter(t))

	rec := client.PostRaw("/submit", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	client.CSRFToken("/add")
	rec = client.PostRaw("/submit", url.Values{"csrf_token": {"deadbeef"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSRF")
}

func TestCSRFAcceptsFormFieldAndHeader(t *testing.T) {
	client := testutil.NewClient(t, newTestRouter(t))
	token := client.CSRFToken("/add")

	rec := client.PostRaw("/submit", url.Values{"csrf_token": {token}})
	assert.Equal(t, http.StatusFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(CSRFHeader, token)
	rec = client.Do(req)
	assert.Equal(t, http.StatusFound, rec.Code)

	// 同一会话内令牌保持不变
	assert.Equal(t, token, client.CSRFToken("/add"))
}

func TestCSRFTokenIsPerSession(t *testing.T) {
	router := newTestRouter(t)

	first := testutil.NewClient(t, router).CSRFToken("/add")
	second := testutil.NewClient(t, router)

	rec := second.PostRaw("/submit", url.Values{"csrf_token": {first}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNoticesShownOnceAfterRedirect(t *testing.T) {
	client := testutil.NewClient(t, newTestRouter(t))

	rec := client.PostForm("/submit", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = client.Get("/")
	assert.Contains(t, rec.Body.String(), "[success:saved]")

	rec = client.Get("/")
	assert.NotContains(t, rec.Body.String(), "saved")
}

func TestNoticeShownOnSameRender(t *testing.T) {
	client := testutil.NewClient(t, newTestRouter(t))

	rec := client.PostForm("/inline", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[warning:careful]")
	assert.NotContains(t, client.Get("/").Body.String(), "careful")
}

func TestLimiterStoreAllowsBurstThenBlocks(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewLimiterStore(RateLimiterConfig{Rate: 1, Burst: 2})
	store.now = func() time.Time { return now }

	assert.True(t, store.Allow("10.0.0.1"))
	assert.True(t, store.Allow("10.0.0.1"))
	assert.False(t, store.Allow("10.0.0.1"))
	assert.True(t, store.Allow("10.0.0.2"), "limits are per key")

	now = now.Add(time.Second)
	assert.True(t, store.Allow("10.0.0.1"))
}

func TestLimiterStoreSweep(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewLimiterStore(RateLimiterConfig{Rate: 1, Burst: 1, ExpiryTime: time.Minute})
	store.now = func() time.Time { return now }

	store.Allow("a")
	now = now.Add(30 * time.Second)
	store.Allow("b")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestLimiterSweeperStops(t *testing.T) {
	store := NewLimiterStore(RateLimiterConfig{SweepInterval: time.Millisecond})
	stop := make(chan struct{})

	done := store.StartSweeper(stop)
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper still running after stop was closed")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testPages)))
	r.POST("/write", IPRateLimiter(stop, 0.001, 2), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/write", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get(RequestIDHeader))
}

func TestRecoveryRendersErrorPage(t *testing.T) {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testPages)))
	r.Use(RequestLogger(), Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "500"))
}
