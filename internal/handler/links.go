package handler

import (
	"net/url"
	"strconv"

	"github.com/user/cinehub/internal/model"
)

// 列表视图
const (
	ViewHome   = "home"
	ViewBrowse = "browse"
	ViewSearch = "search"
)

// viewPath 视图对应的完整页面路径
func viewPath(view string) string {
	switch view {
	case ViewBrowse:
		return "/browse"
	case ViewSearch:
		return "/search"
	default:
		return "/"
	}
}

// listingLinks 根据条件生成分页地址，默认值不写进地址
type listingLinks struct {
	view  string
	query model.PageQuery
}

func newListingLinks(view string, q model.PageQuery) listingLinks {
	return listingLinks{view: view, query: q}
}

func (l listingLinks) values(page int) url.Values {
	v := url.Values{}
	q := l.query
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Facet.Kind.Path() != "" {
		v.Set("type", q.Facet.Kind.Path())
		if q.Facet.Slug != "" {
			v.Set("slug", q.Facet.Slug)
		}
	}
	if q.Filter != model.FilterAll && q.Filter != model.FilterUnknown {
		v.Set("filter", q.Filter.String())
	}
	if q.Sort != model.SortLatest && q.Sort != model.SortUnknown {
		v.Set("sort", q.Sort.String())
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	return v
}

// PageURL 完整页面地址
func (l listingLinks) PageURL(page int) string {
	path := viewPath(l.view)
	if v := l.values(page); len(v) > 0 {
		return path + "?" + v.Encode()
	}
	return path
}

// FragmentURL htmx 片段地址，总是带上页码
func (l listingLinks) FragmentURL(page int) string {
	v := l.values(page)
	v.Set("view", l.view)
	v.Set("page", strconv.Itoa(page))
	return "/htmx/listing?" + v.Encode()
}

