// Package pagination 从资源站不一致的分页元数据中推断总页数
package pagination

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FullPageSize 资源站一页的常规条数，无元数据时用于判断是否还有下一页
const FullPageSize = 24

// 各逻辑字段的别名，按顺序尝试
var (
	TotalPagesAliases = []string{"totalPages", "total_pages", "totalPage", "total_page"}
	TotalItemsAliases = []string{"totalItems", "total_items"}
	PerPageAliases    = []string{"totalItemsPerPage", "items_per_page", "itemsPerPage", "per_page"}
)

// TotalPages 推断总页数，优先级固定：
//  1. 显式总页数字段
//  2. 总条数 / 每页条数（每页条数缺失时用本页条数）向上取整
//  3. 无元数据：本页满 24 条则假设还有下一页，否则当前页即最后一页
//
// 结果永远 >= 1。
func TotalPages(meta map[string]any, itemCount, currentPage int) int {
	if currentPage < 1 {
		currentPage = 1
	}

	if n, ok := lookup(meta, TotalPagesAliases); ok {
		return atLeastOne(math.Ceil(n))
	}

	if totalItems, ok := lookup(meta, TotalItemsAliases); ok {
		perPage, ok := lookup(meta, PerPageAliases)
		if !ok && itemCount > 0 {
			perPage, ok = float64(itemCount), true
		}
		if ok {
			return atLeastOne(math.Ceil(totalItems / perPage))
		}
	}

	if itemCount >= FullPageSize {
		return currentPage + 1
	}
	return currentPage
}

// lookup 返回第一个能解析为有限正数的别名值
func lookup(meta map[string]any, aliases []string) (float64, bool) {
	if meta == nil {
		return 0, false
	}
	for _, key := range aliases {
		v, exists := meta[key]
		if !exists {
			continue
		}
		if n, ok := toNumber(v); ok && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// toNumber 将 JSON 值转为有限数值
func toNumber(v any) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case float32:
		n = float64(val)
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func atLeastOne(n float64) int {
	if n < 1 || math.IsNaN(n) {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}
