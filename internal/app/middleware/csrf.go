package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/error/code"
	"secret-agents-service/internal/error/response"
	Logger "secret-agents-service/pkg/logger"
	"secret-agents-service/pkg/utils"
)

const (
	// CSRFFormField 表单中的防伪令牌字段
	CSRFFormField = "csrf_token"
	// CSRFHeader 请求头中的防伪令牌
	CSRFHeader = "X-CSRF-Token"

	csrfSessionKey = "csrf_token"
	csrfContextKey = "csrf_token"
)

// CSRF 为每个会话签发防伪令牌，并校验所有写请求
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfSessionKey).(string)
		if token == "" {
			var err error
			token, err = utils.RandomToken(32)
			if err != nil {
				Logger.Error("生成防伪令牌失败: %v", err)
				response.ErrorPage(c, code.ErrUnknown, "")
				return
			}
			session.Set(csrfSessionKey, token)
			if err := session.Save(); err != nil {
				Logger.Error("保存会话失败: %v", err)
			}
		}
		c.Set(csrfContextKey, token)

		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		submitted := c.GetHeader(CSRFHeader)
		if submitted == "" {
			submitted = c.PostForm(CSRFFormField)
		}
		if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			Logger.Warning("防伪令牌校验失败: %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			response.BadRequest(c, code.ErrCSRFTokenInvalid, "")
			return
		}

		c.Next()
	}
}

// CSRFToken 返回当前请求可用的防伪令牌
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
