package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/catalog"
	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/logger"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/render"
)

// Handler HTTP 处理器
type Handler struct {
	Config      *config.Config
	Catalog     *catalog.Service
	Controllers *controller.Registry
	Renderer    *render.Renderer
	Log         *logrus.Logger

	// LiveDebounce 实时搜索的防抖时间，为 0 时使用默认 300ms
	LiveDebounce time.Duration

	log *logrus.Entry
}

// NewHandler 创建处理器，每个访客每个视图一个分页控制器
func NewHandler(cfg *config.Config, svc *catalog.Service, renderer *render.Renderer, log *logrus.Logger) *Handler {
	registry := controller.NewRegistry(svc, cfg.SessionCapacity, cfg.SessionTTL,
		controller.WithTimeout(cfg.FetchTimeout),
		controller.WithLogger(log),
	)
	return &Handler{
		Config:      cfg,
		Catalog:     svc,
		Controllers: registry,
		Renderer:    renderer,
		Log:         log,
		log:         logger.Component(log, "handler"),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName":   h.Config.SiteName,
		"SiteUrl":    h.Config.SiteUrl,
		"Path":       c.Request.URL.Path,
		"Theme":      middleware.GetTheme(c),
		"ActiveMenu": h.getActiveMenu(c.Request.URL.Path),
		"Filters":    model.FilterKinds,
		"Sorts":      model.SortKeys,
		"Footer":     h.footer(c.Request.Context()),
	}

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// footer 页脚分面，失败时已回退为内置列表
func (h *Handler) footer(ctx context.Context) catalog.Footer {
	ctx, cancel := context.WithTimeout(ctx, h.Config.FetchTimeout)
	defer cancel()
	return h.Catalog.Footer(ctx)
}

// getActiveMenu 根据路径判断当前高亮菜单
func (h *Handler) getActiveMenu(path string) string {
	switch path {
	case "/":
		return "home"
	case "/browse":
		return "browse"
	case "/search":
		return "search"
	default:
		return ""
	}
}

// listingResult 一次列表加载的结果
type listingResult struct {
	Snapshot controller.Snapshot
	HTML     template.HTML
	// ReplaceURL 加载成功后需要同步到地址栏的页面地址
	ReplaceURL string
	// Ignored 页码越界或已被更新的请求取代
	Ignored bool
}

// loadListing 通过访客的控制器加载列表并渲染片段
func (h *Handler) loadListing(c *gin.Context, view string, q model.PageQuery) (listingResult, error) {
	links := newListingLinks(view, q)
	ctrl := h.Controllers.Get(middleware.GetSessionID(c), view)

	var res listingResult
	loc := controller.LocationFunc(func(page int) {
		res.ReplaceURL = links.PageURL(page)
	})

	snap, err := ctrl.Load(c.Request.Context(), q, loc)
	switch {
	case errors.Is(err, controller.ErrOutOfRange), errors.Is(err, controller.ErrSuperseded):
		res.Ignored = true
		// 页面仍展示控制器当前的内容，地址同步为实际展示的页码
		links = newListingLinks(view, snap.Query)
		shown := snap.Pagination.CurrentPage
		if shown < 1 {
			shown = snap.Query.Page
		}
		res.ReplaceURL = links.PageURL(shown)
	case err != nil:
		return res, err
	}
	res.Snapshot = snap

	html, err := h.Renderer.Listing(snap, links)
	if err != nil {
		return res, err
	}
	res.HTML = html
	return res, nil
}

// renderError 错误页
func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", h.RenderData(c, gin.H{
		"Title":   "Error - " + h.Config.SiteName,
		"Status":  status,
		"Message": message,
		"Retry":   c.Request.URL.RequestURI(),
	}))
}

// NotFound 404 页
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "Not found - " + h.Config.SiteName,
	}))
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
