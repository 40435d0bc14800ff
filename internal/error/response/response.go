package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/error/code"
)

// ErrorTemplate 错误页面模板名称
const ErrorTemplate = "error.html"

// Response 定义统一的响应格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, errorCode int, data interface{}) {
	c.JSON(code.GetStatus(errorCode), Response{
		Code:    errorCode,
		Message: code.GetMessage(errorCode),
		Data:    data,
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string, data interface{}) {
	c.JSON(code.GetStatus(errorCode), Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// ErrorPage 渲染HTML错误页面并中止后续处理
func ErrorPage(c *gin.Context, errorCode int, message string) {
	status := code.GetStatus(errorCode)
	if message == "" {
		message = code.GetMessage(errorCode)
	}
	c.HTML(status, ErrorTemplate, gin.H{
		"status":  status,
		"code":    errorCode,
		"title":   http.StatusText(status),
		"message": message,
	})
	c.Abort()
}

// NotFound 资源不存在页面
func NotFound(c *gin.Context, message string) {
	ErrorPage(c, code.ErrAgentNotFound, message)
}

// BadRequest 请求错误页面
func BadRequest(c *gin.Context, errorCode int, message string) {
	ErrorPage(c, errorCode, message)
}

// TooManyRequests 限流页面
func TooManyRequests(c *gin.Context) {
	ErrorPage(c, code.ErrTooManyRequests, "")
}
