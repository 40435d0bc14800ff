package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/app/middleware"
)

// renderPage 渲染页面，附带待显示的提示消息和防伪令牌
func renderPage(c *gin.Context, status int, name string, data gin.H) {
	data["notices"] = middleware.PopNotices(c)
	data["csrf_token"] = middleware.CSRFToken(c)
	c.HTML(status, name, data)
}

// parseID 解析路径中的正整数ID
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
