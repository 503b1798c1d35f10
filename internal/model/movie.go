package model

import (
	"strings"
	"time"
)

// ContentType 影片类型
type ContentType int

const (
	ContentUnspecified ContentType = iota
	ContentSingle
	ContentSeries
	ContentTVShow
)

// ParseContentType 解析资源站返回的 type 字段
func ParseContentType(s string) ContentType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return ContentSingle
	case "series":
		return ContentSeries
	case "tvshows", "tv-show", "tvshow":
		return ContentTVShow
	default:
		return ContentUnspecified
	}
}

func (t ContentType) String() string {
	switch t {
	case ContentSingle:
		return "single"
	case ContentSeries:
		return "series"
	case ContentTVShow:
		return "tv-show"
	default:
		return "unspecified"
	}
}

// MarshalText 输出为字符串，便于 JSON 接口阅读
func (t ContentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Tag 分类/国家标签
type Tag struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ItemSummary 列表/搜索接口返回的影片条目
type ItemSummary struct {
	Slug           string      `json:"slug"`
	Name           string      `json:"name"`
	OriginName     string      `json:"origin_name,omitempty"`
	Year           int         `json:"year,omitempty"` // 0 表示缺失
	Type           ContentType `json:"type"`
	Categories     []Tag       `json:"categories,omitempty"`
	Quality        string      `json:"quality,omitempty"`
	EpisodeCurrent string      `json:"episode_current,omitempty"`
	Lang           string      `json:"lang,omitempty"`
	ModifiedAt     time.Time   `json:"modified_at,omitzero"` // 零值表示缺失
	PosterURL      string      `json:"poster_url,omitempty"`
	ThumbURL       string      `json:"thumb_url,omitempty"`
}

// HasCategory 是否包含指定分类
func (m *ItemSummary) HasCategory(slug string) bool {
	for _, c := range m.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// Image 优先海报，其次缩略图
func (m *ItemSummary) Image() string {
	if m.PosterURL != "" {
		return m.PosterURL
	}
	return m.ThumbURL
}

// Thumb 优先缩略图，其次海报
func (m *ItemSummary) Thumb() string {
	if m.ThumbURL != "" {
		return m.ThumbURL
	}
	return m.PosterURL
}

// ItemDetail 详情接口返回的完整影片信息
type ItemDetail struct {
	ItemSummary
	Description  string         `json:"description,omitempty"`
	Actors       []string       `json:"actors,omitempty"`
	Directors    []string       `json:"directors,omitempty"`
	Countries    []Tag          `json:"countries,omitempty"`
	Episodes     []EpisodeGroup `json:"episodes,omitempty"`
	View         int            `json:"view"`
	Time         string         `json:"time,omitempty"`
	EpisodeTotal string         `json:"episode_total,omitempty"`
}

// EpisodeGroup 一个播放服务器下的剧集
type EpisodeGroup struct {
	ServerName string    `json:"server_name"`
	Episodes   []Episode `json:"episodes"`
}

// Episode 剧集/播放链接
type Episode struct {
	Name      string `json:"name"`
	Slug      string `json:"slug,omitempty"`
	EmbedLink string `json:"embed_link"`
}

// CategoryNames 分类名称，逗号分隔
func (d *ItemDetail) CategoryNames() string {
	return joinTagNames(d.Categories)
}

// CountryNames 国家名称，逗号分隔
func (d *ItemDetail) CountryNames() string {
	return joinTagNames(d.Countries)
}

// Group 按下标取播放服务器，越界时返回第一个
func (d *ItemDetail) Group(i int) (EpisodeGroup, int, bool) {
	if len(d.Episodes) == 0 {
		return EpisodeGroup{}, 0, false
	}
	if i < 0 || i >= len(d.Episodes) {
		i = 0
	}
	return d.Episodes[i], i, true
}

func joinTagNames(tags []Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return strings.Join(names, ", ")
}

// FacetEntry 分类/国家/年份索引中的一项
type FacetEntry struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
