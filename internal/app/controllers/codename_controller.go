package controllers

import (
	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/error/code"
	"secret-agents-service/internal/error/response"
	"secret-agents-service/pkg/utils"
)

// CodenameController 随机代号建议
type CodenameController struct {
	Ctx *gin.Context
}

// NewCodenameController 创建代号控制器
func NewCodenameController(ctx *gin.Context) *CodenameController {
	return &CodenameController{Ctx: ctx}
}

// Suggest 返回一个随机代号
func (c *CodenameController) Suggest() {
	response.Success(c.Ctx, gin.H{
		"codename": utils.RandomCodename(),
	})
}

// HandleCodenameFunc 返回一个处理代号请求的函数
func HandleCodenameFunc(method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCodenameController(ctx)

		switch method {
		case "suggest":
			controller.Suggest()
		default:
			response.FailWithMessage(ctx, code.ErrValidation, "无效的方法", nil)
		}
	}
}
