package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/logger"
)

const (
	sessionIDKey = "sid"
	themeKey     = "theme"
	contextKey   = "session_id"
)

// 主题
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// SessionID 为每个访客分配稳定的会话 ID，用于区分各自的分页控制器
func SessionID(log *logrus.Logger) gin.HandlerFunc {
	entry := logger.Component(log, "session")
	return func(c *gin.Context) {
		session := sessions.Default(c)
		sid, _ := session.Get(sessionIDKey).(string)
		if sid == "" {
			sid = uuid.New().String()
			session.Set(sessionIDKey, sid)
			if err := session.Save(); err != nil {
				// 保存失败时本次请求仍可使用，但下次请求会分配新的 ID
				entry.WithError(err).WithField("path", c.Request.URL.Path).Warn("保存会话失败")
			}
		}
		c.Set(contextKey, sid)
		c.Next()
	}
}

// GetSessionID 当前访客的会话 ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(contextKey)
}

// GetTheme 当前主题，默认暗色
func GetTheme(c *gin.Context) string {
	if theme, ok := sessions.Default(c).Get(themeKey).(string); ok && theme == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleTheme 切换主题并保存，返回新主题
func ToggleTheme(c *gin.Context) (string, error) {
	next := ThemeLight
	if GetTheme(c) == ThemeLight {
		next = ThemeDark
	}
	session := sessions.Default(c)
	session.Set(themeKey, next)
	return next, session.Save()
}
