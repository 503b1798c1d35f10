package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
)

// Listing 一页列表数据及原始分页元数据
type Listing struct {
	Items      []model.ItemSummary `json:"items"`
	Pagination map[string]any      `json:"pagination,omitempty"`
}

// Listing 取出列表，data.items 缺失时返回空列表
func (e *Envelope) Listing() *Listing {
	items := make([]model.ItemSummary, 0, len(e.items))
	for _, raw := range e.items {
		item := mapToSummary(raw, e.imageBase)
		if item.Slug == "" {
			continue
		}
		items = append(items, item)
	}
	return &Listing{Items: items, Pagination: e.pagination}
}

// Detail 取出详情，data.item 缺失时返回 nil
func (e *Envelope) Detail() *model.ItemDetail {
	if e.item == nil {
		return nil
	}
	d := mapToDetail(e.item, e.imageBase)
	if d.Slug == "" {
		return nil
	}
	return &d
}

// Facets 取出分面索引，缺 slug 的条目由名称生成
func (e *Envelope) Facets() []model.FacetEntry {
	entries := make([]model.FacetEntry, 0, len(e.items))
	seen := make(map[string]bool, len(e.items))
	for _, raw := range e.items {
		name := toString(raw["name"])
		if name == "" {
			// 年份索引只有 year 字段
			name = toString(raw["year"])
		}
		if name == "" {
			continue
		}
		slug := toString(raw["slug"])
		if slug == "" {
			slug = utils.Slugify(name)
		}
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		entries = append(entries, model.FacetEntry{Name: name, Slug: slug})
	}
	return entries
}

// mapToSummary 将 map 转为 ItemSummary，字段类型不一致时尽量兼容
func mapToSummary(m map[string]any, imageBase string) model.ItemSummary {
	return model.ItemSummary{
		Slug:           toString(m["slug"]),
		Name:           toString(m["name"]),
		OriginName:     toString(m["origin_name"]),
		Year:           toInt(m["year"]),
		Type:           model.ParseContentType(toString(m["type"])),
		Categories:     toTags(m["category"]),
		Quality:        toString(m["quality"]),
		EpisodeCurrent: toString(m["episode_current"]),
		Lang:           toString(m["lang"]),
		ModifiedAt:     toTime(m["modified"]),
		PosterURL:      resolveImage(imageBase, toString(m["poster_url"])),
		ThumbURL:       resolveImage(imageBase, toString(m["thumb_url"])),
	}
}

func mapToDetail(m map[string]any, imageBase string) model.ItemDetail {
	return model.ItemDetail{
		ItemSummary:  mapToSummary(m, imageBase),
		Description:  toString(m["content"]),
		Actors:       toStrings(m["actor"]),
		Directors:    toStrings(m["director"]),
		Countries:    toTags(m["country"]),
		Episodes:     toEpisodeGroups(m["episodes"]),
		View:         toInt(m["view"]),
		Time:         toString(m["time"]),
		EpisodeTotal: toString(m["episode_total"]),
	}
}

func toEpisodeGroups(v any) []model.EpisodeGroup {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	groups := make([]model.EpisodeGroup, 0, len(list))
	for _, raw := range list {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		group := model.EpisodeGroup{ServerName: toString(m["server_name"])}
		data, _ := m["server_data"].([]any)
		for _, e := range data {
			em, ok := e.(map[string]any)
			if !ok {
				continue
			}
			ep := model.Episode{
				Name:      toString(em["name"]),
				Slug:      toString(em["slug"]),
				EmbedLink: toString(em["link_embed"]),
			}
			if ep.EmbedLink == "" {
				continue
			}
			group.Episodes = append(group.Episodes, ep)
		}
		if len(group.Episodes) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

// toTags 兼容 [{slug,name}] 和 ["name"] 两种形式
func toTags(v any) []model.Tag {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	tags := make([]model.Tag, 0, len(list))
	for _, raw := range list {
		switch t := raw.(type) {
		case map[string]any:
			tag := model.Tag{Slug: toString(t["slug"]), Name: toString(t["name"])}
			if tag.Slug == "" {
				tag.Slug = utils.Slugify(tag.Name)
			}
			if tag.Slug != "" {
				tags = append(tags, tag)
			}
		case string:
			if t != "" {
				tags = append(tags, model.Tag{Slug: utils.Slugify(t), Name: t})
			}
		}
	}
	return tags
}

// toStrings 兼容字符串数组和逗号分隔字符串，过滤空值
func toStrings(v any) []string {
	var out []string
	switch val := v.(type) {
	case []any:
		for _, s := range val {
			if str := strings.TrimSpace(toString(s)); str != "" {
				out = append(out, str)
			}
		}
	case string:
		for _, s := range strings.Split(val, ",") {
			if str := strings.TrimSpace(s); str != "" {
				out = append(out, str)
			}
		}
	}
	return out
}

// toTime modified 字段形如 {"time": "2024-05-01T10:00:00.000Z"}，也兼容直接给字符串
func toTime(v any) time.Time {
	if m, ok := v.(map[string]any); ok {
		v = m["time"]
	}
	s := toString(v)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// resolveImage 相对路径拼接图片根地址，绝对地址原样返回
func resolveImage(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//") {
		return ref
	}
	return base + strings.TrimLeft(ref, "/")
}

// toString 将任意类型转换为string
func toString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toInt 数字或数字字符串转 int，无法解析时为 0
func toInt(v any) int {
	s := toString(v)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
