package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/handler"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/web"
)

// New 组装 Gin 引擎：中间件、模板、静态资源和路由
func New(h *handler.Handler) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，websocket 握手不能压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws/"})))

	// 设置 Session 中间件，只保存会话 ID 和主题
	store := cookie.NewStore([]byte(h.Config.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   h.Config.IsProduction() && strings.HasPrefix(h.Config.SiteUrl, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("cinehub", store))

	// 中间件
	r.Use(middleware.SessionID(h.Log))
	r.Use(middleware.Logger(h.Log))
	r.Use(middleware.Security())

	// 加载模板（使用 multitemplate 解决继承问题）
	tmpl, err := LoadTemplates(web.FS)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = tmpl

	// 静态文件
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))

	RegisterRoutes(r, h)
	return r, nil
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 页面 ====================
	r.GET("/", h.Home)
	r.GET("/browse", h.Browse)
	r.GET("/search", h.Search)
	r.GET("/movie/:slug", h.Movie)
	r.POST("/theme", h.ToggleTheme)

	// ==================== htmx 片段 ====================
	frag := r.Group("/htmx")
	{
		frag.GET("/listing", h.ListingHTMX)
		frag.GET("/suggest", h.SuggestHTMX)
	}

	// ==================== JSON API ====================
	api := r.Group("/api")
	api.Use(middleware.CORS())
	{
		api.GET("/listing", h.ListingAPI)
		api.GET("/movie/:slug", h.MovieAPI)
		api.GET("/facets", h.FacetsAPI)
		api.OPTIONS("/*path", func(c *gin.Context) {})
	}

	// 实时搜索
	r.GET("/ws/search", h.LiveSearch)

	r.NoRoute(h.NotFound)
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := fs.Glob(fsys, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layout templates found")
	}

	// 组装模板文件列表，布局在前，作为执行入口
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(partials)+1)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		"join": strings.Join,
	}

	// 注册所有页面模板
	pages := []string{"home", "browse", "search", "movie", "404", "error"}

	for _, page := range pages {
		files := assemble("templates/pages/" + page + ".html")
		tmpl, err := template.New(path.Base(files[0])).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.Add(page+".html", tmpl)
	}

	return r, nil
}
