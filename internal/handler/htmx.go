package handler

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/catalog"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/render"
)

// ListingHTMX 列表片段：翻页、切换过滤/排序、重试都走这里
// 越界或已被新请求取代时返回 204，浏览器保留当前内容
func (h *Handler) ListingHTMX(c *gin.Context) {
	var p ListingParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.String(http.StatusBadRequest, "invalid parameters")
		return
	}
	view := p.View
	if view == "" {
		view = ViewHome
	}

	q, notice := buildQuery(view, p)
	if notice != "" {
		h.htmlFragment(c, template.HTML(`<section id="listing" class="listing" data-state="idle"><div class="notice">`+
			template.HTMLEscapeString(noticeMessage(notice))+`</div></section>`))
		return
	}

	res, err := h.loadListing(c, view, q)
	if err != nil {
		h.log.WithError(err).WithField("view", view).Error("render listing failed")
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	if res.Ignored {
		c.Status(http.StatusNoContent)
		return
	}
	if res.ReplaceURL != "" {
		c.Header("HX-Replace-Url", res.ReplaceURL)
	}
	h.htmlFragment(c, res.HTML)
}

// SuggestHTMX 搜索下拉，最多 5 条
func (h *Handler) SuggestHTMX(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		h.htmlFragment(c, "")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Config.FetchTimeout)
	defer cancel()

	items, err := h.Catalog.Suggest(ctx, term, catalog.SuggestLimit)
	if err != nil {
		h.log.WithError(err).WithField("q", term).Warn("suggest failed")
		h.htmlFragment(c, template.HTML(`<ul class="search-suggestions"><li class="suggestion-error">`+
			template.HTMLEscapeString(render.ErrorMessage(controller.ErrorKind(err)))+`</li></ul>`))
		return
	}

	html, err := h.Renderer.Suggestions(items)
	if err != nil {
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	h.htmlFragment(c, html)
}

func (h *Handler) htmlFragment(c *gin.Context, html template.HTML) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
