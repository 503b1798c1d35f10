// Package render 将列表、分页和搜索建议渲染为 HTML 片段
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"

	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// 缺失字段的展示默认值
const (
	DefaultQuality = "HD"
	DefaultEpisode = "Full"
	MissingYear    = "N/A"
)

// 卡片和下拉缩略图尺寸
const (
	posterWidth  = 300
	posterHeight = 450
	thumbWidth   = 60
	thumbHeight  = 90
)

// Links 分页按钮的地址
type Links interface {
	// PageURL 完整页面地址，无脚本时使用
	PageURL(page int) string
	// FragmentURL htmx 片段地址
	FragmentURL(page int) string
}

// Renderer 片段渲染器，模板在创建时解析，之后只读
type Renderer struct {
	tmpl *template.Template
}

// New 解析内嵌模板
func New() (*Renderer, error) {
	tmpl, err := template.New("render").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew 模板解析失败时 panic，模板是内嵌的，只会在开发期出错
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

type cardView struct {
	Slug     string
	Name     string
	Origin   string
	Href     string
	Image    string
	Fallback template.URL
	Quality  string
	Episode  string
	Year     string
}

func newCard(item model.ItemSummary, image string, w, h int) cardView {
	c := cardView{
		Slug:     item.Slug,
		Name:     item.Name,
		Origin:   item.OriginName,
		Href:     "/movie/" + item.Slug,
		Image:    image,
		Fallback: template.URL(Placeholder(w, h, item.Name)),
		Quality:  item.Quality,
		Episode:  item.EpisodeCurrent,
		Year:     MissingYear,
	}
	if c.Quality == "" {
		c.Quality = DefaultQuality
	}
	if c.Episode == "" {
		c.Episode = DefaultEpisode
	}
	if item.Year > 0 {
		c.Year = strconv.Itoa(item.Year)
	}
	return c
}

// Grid 影片卡片网格，空列表渲染单个空状态
func (r *Renderer) Grid(items []model.ItemSummary) (template.HTML, error) {
	cards := make([]cardView, 0, len(items))
	for _, item := range items {
		cards = append(cards, newCard(item, item.Image(), posterWidth, posterHeight))
	}
	return r.execute("grid", cards)
}

type paginationView struct {
	Current  int
	Total    int
	HasPrev  bool
	HasNext  bool
	PrevHref string
	NextHref string
	PrevHX   string
	NextHX   string
}

// Pagination 上一页 / "Page c / t" / 下一页；只有一页时不渲染
func (r *Renderer) Pagination(state model.PaginationState, links Links) (template.HTML, error) {
	if !state.Visible() {
		return "", nil
	}
	v := paginationView{
		Current: state.CurrentPage,
		Total:   state.TotalPages,
		HasPrev: state.HasPrev(),
		HasNext: state.HasNext(),
	}
	if v.HasPrev {
		v.PrevHref = links.PageURL(v.Current - 1)
		v.PrevHX = links.FragmentURL(v.Current - 1)
	}
	if v.HasNext {
		v.NextHref = links.PageURL(v.Current + 1)
		v.NextHX = links.FragmentURL(v.Current + 1)
	}
	return r.execute("pagination", v)
}

type listingView struct {
	State      string
	Loading    bool
	Failed     bool
	Message    string
	RetryHref  string
	RetryHX    string
	PendingHX  string
	Grid       template.HTML
	Pagination template.HTML
	Shown      int
	Fetched    int
}

// Listing 根据控制器状态渲染网格+分页、加载中或错误提示
func (r *Renderer) Listing(snap controller.Snapshot, links Links) (template.HTML, error) {
	v := listingView{
		State:   snap.State.String(),
		Shown:   len(snap.Items),
		Fetched: snap.Fetched,
	}
	switch snap.State {
	case controller.StateLoading, controller.StateIdle:
		v.Loading = true
		page := snap.Query.Page
		if page < 1 {
			page = 1
		}
		v.PendingHX = links.FragmentURL(page)
	case controller.StateFailed:
		v.Failed = true
		v.Message = ErrorMessage(snap.ErrorKind())
		v.RetryHref = links.PageURL(snap.Query.Page)
		v.RetryHX = links.FragmentURL(snap.Query.Page)
	default:
		grid, err := r.Grid(snap.Items)
		if err != nil {
			return "", err
		}
		pager, err := r.Pagination(snap.Pagination, links)
		if err != nil {
			return "", err
		}
		v.Grid, v.Pagination = grid, pager
	}
	return r.execute("listing", v)
}

// ErrorMessage 失败原因对应的提示
func ErrorMessage(kind string) string {
	switch kind {
	case "timeout":
		return "The server took too long to respond."
	case "network":
		return "Could not reach the movie server."
	case "decode":
		return "The movie server returned an unexpected response."
	default:
		return "Something went wrong while loading movies."
	}
}

// Suggestions 搜索下拉，最多 5 条
func (r *Renderer) Suggestions(items []model.ItemSummary) (template.HTML, error) {
	if len(items) > 5 {
		items = items[:5]
	}
	cards := make([]cardView, 0, len(items))
	for _, item := range items {
		cards = append(cards, newCard(item, item.Thumb(), thumbWidth, thumbHeight))
	}
	return r.execute("suggestions", cards)
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
