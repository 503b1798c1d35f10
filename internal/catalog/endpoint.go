package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/user/cinehub/internal/model"
)

// LatestPath 最新更新列表
const LatestPath = "danh-sach/phim-moi-cap-nhat"

// Endpoint 一个资源站接口地址（相对 API 根路径）
type Endpoint struct {
	Path  string
	Query url.Values
}

// Latest 最新更新
func Latest(page int) Endpoint {
	return Endpoint{Path: LatestPath, Query: pageQuery(page)}
}

// Search 关键词搜索
func Search(term string, page int) Endpoint {
	q := pageQuery(page)
	q.Set("keyword", strings.TrimSpace(term))
	return Endpoint{Path: "tim-kiem", Query: q}
}

// Detail 影片详情
func Detail(slug string) Endpoint {
	return Endpoint{Path: "phim/" + url.PathEscape(slug)}
}

// Category 分面列表：类型 / 国家 / 年份 / 资源站列表
func Category(kind model.FacetKind, slug string, page int) Endpoint {
	return Endpoint{
		Path:  kind.Path() + "/" + url.PathEscape(slug),
		Query: pageQuery(page),
	}
}

// FacetIndex 分面索引（全部类型 / 国家 / 年份）
func FacetIndex(kind model.FacetKind) Endpoint {
	return Endpoint{Path: kind.Path()}
}

// URL 拼接完整地址
func (e Endpoint) URL(base string) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(e.Path, "/")
	if len(e.Query) > 0 {
		u += "?" + e.Query.Encode()
	}
	return u
}

func (e Endpoint) String() string {
	return e.URL("")
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": []string{strconv.Itoa(page)}}
}
