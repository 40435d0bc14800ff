package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/infrastructure/config"
	Logger "secret-agents-service/pkg/logger"
	"secret-agents-service/pkg/utils"
)

// SessionName 会话 cookie 名称
const SessionName = "agents_session"

// Sessions 基于签名 cookie 的会话中间件
func Sessions(cfg *config.Config) gin.HandlerFunc {
	secret := cfg.SessionSecret
	if secret == "" {
		// 未配置时每次启动随机生成，重启后旧会话失效
		token, err := utils.RandomToken(32)
		if err != nil {
			panic("生成会话密钥失败: " + err.Error())
		}
		secret = token
		Logger.Warning("未配置 SESSION_SECRET，已使用随机生成的会话密钥")
	}

	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store)
}
