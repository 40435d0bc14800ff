package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	baseURL      = &url.URL{Scheme: "http", Host: "agents.test"}
	csrfTokenTag = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)
)

// Client 保存会话 cookie 的测试客户端
type Client struct {
	t       *testing.T
	handler http.Handler
	jar     *cookiejar.Jar
}

// NewClient 创建测试客户端
func NewClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{t: t, handler: handler, jar: jar}
}

// Do 发送请求并记录响应中的 cookie
func (c *Client) Do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()

	target := baseURL.ResolveReference(req.URL)
	for _, cookie := range c.jar.Cookies(target) {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.jar.SetCookies(target, cookies)
	}
	return rec
}

// Get 发送 GET 请求
func (c *Client) Get(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// PostForm 发送表单，未携带 csrf_token 时自动附加当前会话的令牌
func (c *Client) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if _, ok := form["csrf_token"]; !ok {
		form.Set("csrf_token", c.CSRFToken("/add"))
	}
	return c.PostRaw(path, form)
}

// PostRaw 原样发送表单
func (c *Client) PostRaw(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

// CSRFToken 打开页面并从表单中取出防伪令牌
func (c *Client) CSRFToken(page string) string {
	c.t.Helper()
	rec := c.Get(page)
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	m := csrfTokenTag.FindStringSubmatch(rec.Body.String())
	require.Len(c.t, m, 2, "csrf token not found on %s", page)
	return m[1]
}
