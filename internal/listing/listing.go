// Package listing 对已获取的影片列表做本地过滤与排序
package listing

import (
	"sort"

	"github.com/user/cinehub/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Locale 名称排序使用的语言
var Locale = language.Vietnamese

// Filter 按过滤条件筛选，返回新切片
func Filter(items []model.ItemSummary, kind model.FilterKind) []model.ItemSummary {
	out := make([]model.ItemSummary, 0, len(items))
	for _, item := range items {
		if match(&item, kind) {
			out = append(out, item)
		}
	}
	return out
}

func match(item *model.ItemSummary, kind model.FilterKind) bool {
	switch kind {
	case model.FilterSingle:
		return item.Type == model.ContentSingle
	case model.FilterSeries:
		return item.Type == model.ContentSeries
	case model.FilterTVShows:
		return item.Type == model.ContentTVShow
	case model.FilterAnimation:
		return item.HasCategory(model.AnimationCategory)
	default:
		// all 与无法识别的条件都放行
		return true
	}
}

// Sort 在副本上稳定排序，不修改调用方的切片
func Sort(items []model.ItemSummary, key model.SortKey) []model.ItemSummary {
	sorted := make([]model.ItemSummary, len(items))
	copy(sorted, items)

	switch key {
	case model.SortLatest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ModifiedAt.After(sorted[j].ModifiedAt)
		})
	case model.SortYear:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Year > sorted[j].Year
		})
	case model.SortName:
		// Collator 非并发安全，每次排序单独创建
		col := collate.New(Locale, collate.IgnoreCase, collate.Loose)
		sort.SliceStable(sorted, func(i, j int) bool {
			return col.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	}
	return sorted
}

// Apply 先过滤再排序
func Apply(items []model.ItemSummary, kind model.FilterKind, key model.SortKey) []model.ItemSummary {
	return Sort(Filter(items, kind), key)
}
