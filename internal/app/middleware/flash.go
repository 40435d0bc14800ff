package middleware

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	Logger "secret-agents-service/pkg/logger"
)

// 提示消息级别
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

// Notice 一次性提示消息，下一次渲染页面时显示
type Notice struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Notice{})
}

// AddNotice 追加一条提示消息并保存会话
func AddNotice(c *gin.Context, level, message string) {
	session := sessions.Default(c)
	session.AddFlash(Notice{Level: level, Message: message})
	if err := session.Save(); err != nil {
		Logger.Error("保存会话失败: %v", err)
	}
}

// PopNotices 取出全部待显示的提示消息
func PopNotices(c *gin.Context) []Notice {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		Logger.Error("保存会话失败: %v", err)
	}

	notices := make([]Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}
