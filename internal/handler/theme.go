package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/middleware"
)

// ToggleTheme 切换明暗主题，保存在 cookie session 中
func (h *Handler) ToggleTheme(c *gin.Context) {
	theme, err := middleware.ToggleTheme(c)
	if err != nil {
		h.log.WithError(err).Warn("save theme failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	if c.GetHeader("HX-Request") == "true" {
		// 由前端脚本切换 data-theme，无需刷新
		c.Header("HX-Trigger", `{"theme-changed":"`+theme+`"}`)
		c.Status(http.StatusNoContent)
		return
	}

	back := c.Request.Referer()
	if back == "" || !strings.HasPrefix(back, h.Config.SiteUrl) {
		back = "/"
	}
	c.Redirect(http.StatusSeeOther, back)
}
