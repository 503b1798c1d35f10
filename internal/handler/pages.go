package handler

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/render"
	"github.com/user/cinehub/internal/utils"
)

// ==================== 列表页面 ====================

// Home 首页：最新更新，本地过滤和排序
func (h *Handler) Home(c *gin.Context) {
	h.listingPage(c, ViewHome, "home.html")
}

// Browse 分面列表页：类型 / 国家 / 年份 / 资源站列表
func (h *Handler) Browse(c *gin.Context) {
	h.listingPage(c, ViewBrowse, "browse.html")
}

// Search 搜索结果页
func (h *Handler) Search(c *gin.Context) {
	if strings.TrimSpace(c.Query("q")) == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.listingPage(c, ViewSearch, "search.html")
}

func (h *Handler) listingPage(c *gin.Context, view, page string) {
	var p ListingParams
	if err := c.ShouldBindQuery(&p); err != nil {
		h.renderError(c, http.StatusBadRequest, "Invalid request parameters.")
		return
	}

	q, notice := buildQuery(view, p)
	data := gin.H{
		"Title":  h.pageTitle(view, q),
		"View":   view,
		"Query":  q,
		"Filter": q.Filter.String(),
		"Sort":   q.Sort.String(),
	}

	if view == ViewBrowse && q.Facet.Kind.Path() != "" {
		data["Facet"] = q.Facet
		data["FacetEntries"] = h.facetEntries(c.Request.Context(), q.Facet.Kind)
	}

	if notice != "" {
		// 条件不完整时不请求资源站
		data["Notice"] = noticeMessage(notice)
		c.HTML(http.StatusOK, page, h.RenderData(c, data))
		return
	}

	res, err := h.loadListing(c, view, q)
	if err != nil {
		h.log.WithError(err).WithField("view", view).Error("render listing failed")
		h.renderError(c, http.StatusInternalServerError, "Could not render the page.")
		return
	}
	data["Listing"] = res.HTML
	data["ReplaceURL"] = res.ReplaceURL
	c.HTML(http.StatusOK, page, h.RenderData(c, data))
}

func (h *Handler) pageTitle(view string, q model.PageQuery) string {
	switch view {
	case ViewSearch:
		return "Search: " + q.Search + " - " + h.Config.SiteName
	case ViewBrowse:
		if t := q.Facet.Title(); t != "" {
			return t + " - " + h.Config.SiteName
		}
		return "Browse - " + h.Config.SiteName
	default:
		return h.Config.SiteName + " - Latest movies"
	}
}

// facetEntries 分面索引，失败时返回空，不影响列表
func (h *Handler) facetEntries(ctx context.Context, kind model.FacetKind) []model.FacetEntry {
	if kind == model.FacetList {
		return listFacets
	}
	ctx, cancel := context.WithTimeout(ctx, h.Config.FetchTimeout)
	defer cancel()
	entries, err := h.Catalog.FacetIndex(ctx, kind)
	if err != nil {
		h.log.WithError(err).WithField("facet", kind.String()).Warn("facet index unavailable")
		return nil
	}
	return entries
}

// listFacets 资源站按类型划分的列表
var listFacets = []model.FacetEntry{
	{Name: "Phim Lẻ", Slug: "phim-le"},
	{Name: "Phim Bộ", Slug: "phim-bo"},
	{Name: "TV Shows", Slug: "tv-shows"},
	{Name: "Hoạt Hình", Slug: "hoat-hinh"},
}

// ==================== 详情页 ====================

type serverView struct {
	Name   string
	Href   string
	Active bool
}

type episodeView struct {
	Name   string
	Href   string
	Active bool
}

// Movie 详情页：信息、演员、简介、剧集列表和播放器
func (h *Handler) Movie(c *gin.Context) {
	slug := c.Param("slug")
	if !utils.IsSlug(slug) {
		h.NotFound(c)
		return
	}

	var p MovieParams
	if err := c.ShouldBindQuery(&p); err != nil {
		h.renderError(c, http.StatusBadRequest, "Invalid request parameters.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Config.FetchTimeout)
	defer cancel()

	movie, err := h.Catalog.Detail(ctx, slug)
	if err != nil {
		kind := controller.ErrorKind(err)
		h.log.WithError(err).WithFields(logrus.Fields{"slug": slug, "kind": kind}).Warn("load detail failed")
		status := http.StatusBadGateway
		if kind == "timeout" {
			status = http.StatusGatewayTimeout
		}
		h.renderError(c, status, render.ErrorMessage(kind))
		return
	}
	if movie == nil {
		h.NotFound(c)
		return
	}

	order := p.Order
	if order == "" {
		order = "asc"
	}

	data := gin.H{
		"Title":       movieTitle(movie) + " - " + h.Config.SiteName,
		"Movie":       movie,
		"Description": plainText(movie.Description),
		"Poster":      movie.Image(),
		"Fallback":    template.URL(render.Placeholder(300, 450, movie.Name)),
		"Order":       order,
	}

	if group, idx, ok := movie.Group(p.Server); ok && len(group.Episodes) > 0 {
		servers := make([]serverView, 0, len(movie.Episodes))
		for i, g := range movie.Episodes {
			servers = append(servers, serverView{
				Name:   g.ServerName,
				Href:   movieURL(slug, i, "", order),
				Active: i == idx,
			})
		}

		current := group.Episodes[0]
		for _, ep := range group.Episodes {
			if p.Ep != "" && (ep.Slug == p.Ep || ep.Name == p.Ep) {
				current = ep
				break
			}
		}

		episodes := make([]episodeView, 0, len(group.Episodes))
		for _, ep := range group.Episodes {
			episodes = append(episodes, episodeView{
				Name:   ep.Name,
				Href:   movieURL(slug, idx, episodeKey(ep), order),
				Active: episodeKey(ep) == episodeKey(current),
			})
		}
		if order == "desc" {
			for i, j := 0, len(episodes)-1; i < j; i, j = i+1, j-1 {
				episodes[i], episodes[j] = episodes[j], episodes[i]
			}
		}

		reverse := "desc"
		if order == "desc" {
			reverse = "asc"
		}

		data["Servers"] = servers
		data["ServerName"] = group.ServerName
		data["Episodes"] = episodes
		data["Current"] = current
		data["ReverseHref"] = movieURL(slug, idx, episodeKey(current), reverse)
	}

	c.HTML(http.StatusOK, "movie.html", h.RenderData(c, data))
}

func movieTitle(m *model.ItemDetail) string {
	if m.Year > 0 {
		return m.Name + " (" + strconv.Itoa(m.Year) + ")"
	}
	return m.Name
}

func episodeKey(ep model.Episode) string {
	if ep.Slug != "" {
		return ep.Slug
	}
	return ep.Name
}

func movieURL(slug string, server int, ep, order string) string {
	v := url.Values{}
	if server > 0 {
		v.Set("server", strconv.Itoa(server))
	}
	if ep != "" {
		v.Set("ep", ep)
	}
	if order == "desc" {
		v.Set("order", order)
	}
	u := "/movie/" + slug
	if len(v) > 0 {
		u += "?" + v.Encode()
	}
	return u
}

// plainText 简介是 HTML 片段，只保留文本
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
