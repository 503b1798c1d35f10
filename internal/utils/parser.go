package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reNonSlug    = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reMultiDash  = regexp.MustCompile(`-{2,}`)
	reSlugFormat = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify 由名称生成 slug：去掉声调，đ 转 d，只保留字母数字，空格转连字符
// 例如 "Hành Động" -> "hanh-dong"
func Slugify(name string) string {
	if name == "" {
		return ""
	}

	// 1. đ/Đ 不是组合字符，NFD 无法拆分，单独处理
	name = strings.NewReplacer("đ", "d", "Đ", "D").Replace(name)

	// 2. NFD 分解后去掉组合符号
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	// 3. 小写、过滤、空格转连字符
	s := strings.ToLower(stripped)
	s = reNonSlug.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = reSpaces.ReplaceAllString(s, "-")
	s = reMultiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsSlug 是否为合法 slug
func IsSlug(s string) bool {
	return reSlugFormat.MatchString(s)
}
