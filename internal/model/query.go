package model

import (
	"strings"
)

// FilterKind 本地过滤类型
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterSingle
	FilterSeries
	FilterTVShows
	FilterAnimation
	// FilterUnknown 无法识别的过滤条件，放行全部数据
	FilterUnknown
)

// AnimationCategory 动画分类的 slug
const AnimationCategory = "hoat-hinh"

// ParseFilterKind 解析过滤参数，空值视为 all
func ParseFilterKind(s string) FilterKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll
	case "phim-le", "single":
		return FilterSingle
	case "phim-bo", "series":
		return FilterSeries
	case "tv-shows", "tvshows", "tv-show":
		return FilterTVShows
	case "hoat-hinh", "animation":
		return FilterAnimation
	default:
		return FilterUnknown
	}
}

func (f FilterKind) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterSingle:
		return "phim-le"
	case FilterSeries:
		return "phim-bo"
	case FilterTVShows:
		return "tv-shows"
	case FilterAnimation:
		return "hoat-hinh"
	default:
		return "unknown"
	}
}

// MarshalText JSON 中输出 slug
func (f FilterKind) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// FilterKinds 页面上展示的过滤选项
var FilterKinds = []FilterKind{FilterAll, FilterSingle, FilterSeries, FilterTVShows, FilterAnimation}

// Label 展示名称
func (f FilterKind) Label() string {
	switch f {
	case FilterAll:
		return "All"
	case FilterSingle:
		return "Movies"
	case FilterSeries:
		return "Series"
	case FilterTVShows:
		return "TV Shows"
	case FilterAnimation:
		return "Animation"
	default:
		return "Other"
	}
}

// SortKey 本地排序方式
type SortKey int

const (
	SortLatest SortKey = iota
	SortYear
	SortName
	// SortUnknown 无法识别的排序，保持原顺序
	SortUnknown
)

// ParseSortKey 解析排序参数，空值默认 latest
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest":
		return SortLatest
	case "year":
		return SortYear
	case "name":
		return SortName
	default:
		return SortUnknown
	}
}

func (k SortKey) String() string {
	switch k {
	case SortLatest:
		return "latest"
	case SortYear:
		return "year"
	case SortName:
		return "name"
	default:
		return "unknown"
	}
}

// MarshalText JSON 中输出名称
func (k SortKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SortKeys 页面上展示的排序选项
var SortKeys = []SortKey{SortLatest, SortYear, SortName}

// Label 展示名称
func (k SortKey) Label() string {
	switch k {
	case SortLatest:
		return "Recently updated"
	case SortYear:
		return "Release year"
	case SortName:
		return "Name"
	default:
		return "Unsorted"
	}
}

// FacetKind 分面类型
type FacetKind int

const (
	FacetNone FacetKind = iota
	FacetGenre
	FacetCountry
	FacetYear
	// FacetList 资源站按类型划分的列表（phim-le、phim-bo ...）
	FacetList
	FacetInvalid
)

// ParseFacetKind 解析 type 参数
func ParseFacetKind(s string) FacetKind {
	switch strings.TrimSpace(s) {
	case "":
		return FacetNone
	case "the-loai":
		return FacetGenre
	case "quoc-gia":
		return FacetCountry
	case "nam-phat-hanh":
		return FacetYear
	case "danh-sach":
		return FacetList
	default:
		return FacetInvalid
	}
}

// Path 对应的 API 路径段
func (k FacetKind) Path() string {
	switch k {
	case FacetGenre:
		return "the-loai"
	case FacetCountry:
		return "quoc-gia"
	case FacetYear:
		return "nam-phat-hanh"
	case FacetList:
		return "danh-sach"
	default:
		return ""
	}
}

func (k FacetKind) String() string {
	if p := k.Path(); p != "" {
		return p
	}
	if k == FacetNone {
		return "none"
	}
	return "invalid"
}

// MarshalText JSON 中输出路径段
func (k FacetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Label 展示名称
func (k FacetKind) Label() string {
	switch k {
	case FacetGenre:
		return "Genre"
	case FacetCountry:
		return "Country"
	case FacetYear:
		return "Release year"
	case FacetList:
		return "Collection"
	default:
		return ""
	}
}

// Facet 分面条件
type Facet struct {
	Kind FacetKind `json:"kind"`
	Slug string    `json:"slug,omitempty"`
}

// IsAll slug 为空或 all 时表示不限
func (f Facet) IsAll() bool {
	return f.Slug == "" || f.Slug == "all"
}

// Title 分面页标题
func (f Facet) Title() string {
	if f.IsAll() {
		switch f.Kind {
		case FacetGenre:
			return "All titles by genre"
		case FacetCountry:
			return "All titles by country"
		case FacetYear:
			return "All titles by release year"
		case FacetList:
			return "All titles"
		default:
			return ""
		}
	}
	label := f.Kind.Label()
	if label == "" {
		return ""
	}
	if f.Kind == FacetYear {
		return label + ": " + f.Slug
	}
	return label + ": " + strings.ToUpper(strings.ReplaceAll(f.Slug, "-", " "))
}

// PageQuery 一次列表请求的完整条件，不可变值
type PageQuery struct {
	Filter FilterKind `json:"filter"`
	Sort   SortKey    `json:"sort"`
	Page   int        `json:"page"`
	Search string     `json:"search,omitempty"`
	Facet  Facet      `json:"facet"`
}

// NewPageQuery 默认条件：all + latest + 第 1 页
func NewPageQuery() PageQuery {
	return PageQuery{Filter: FilterAll, Sort: SortLatest, Page: 1}
}

// WithPage 只修改页码
func (q PageQuery) WithPage(page int) PageQuery {
	q.Page = page
	return q
}

// WithFilter 修改过滤条件并回到第 1 页
func (q PageQuery) WithFilter(f FilterKind) PageQuery {
	q.Filter = f
	q.Page = 1
	return q
}

// WithSort 修改排序并回到第 1 页
func (q PageQuery) WithSort(k SortKey) PageQuery {
	q.Sort = k
	q.Page = 1
	return q
}

// WithSearch 修改搜索词并回到第 1 页
func (q PageQuery) WithSearch(term string) PageQuery {
	q.Search = strings.TrimSpace(term)
	q.Page = 1
	return q
}

// WithFacet 修改分面并回到第 1 页
func (q PageQuery) WithFacet(kind FacetKind, slug string) PageQuery {
	q.Facet = Facet{Kind: kind, Slug: strings.TrimSpace(slug)}
	q.Page = 1
	return q
}

// SameCriteria 除页码外条件是否一致
func (q PageQuery) SameCriteria(o PageQuery) bool {
	return q.Filter == o.Filter &&
		q.Sort == o.Sort &&
		q.Search == o.Search &&
		q.Facet == o.Facet
}

// PaginationState 当前页与推断的总页数
type PaginationState struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// Clamp 保证 1 <= CurrentPage <= TotalPages
func (p PaginationState) Clamp() PaginationState {
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.CurrentPage > p.TotalPages {
		p.CurrentPage = p.TotalPages
	}
	return p
}

// Visible 只有多于一页时才显示分页
func (p PaginationState) Visible() bool { return p.TotalPages > 1 }

// HasPrev 是否有上一页
func (p PaginationState) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext 是否有下一页
func (p PaginationState) HasNext() bool { return p.CurrentPage < p.TotalPages }

// Contains 页码是否在 [1, TotalPages] 内
func (p PaginationState) Contains(page int) bool {
	return page >= 1 && page <= p.TotalPages
}
