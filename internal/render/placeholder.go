package render

import (
	"encoding/base64"
	"fmt"
	"html"
	"unicode/utf8"
)

// Placeholder 生成固定内容的 SVG 占位图 data URI，相同参数输出相同
func Placeholder(w, h int, label string) string {
	if w <= 0 {
		w = posterWidth
	}
	if h <= 0 {
		h = posterHeight
	}
	label = truncate(label, 24)
	if label == "" {
		label = "No Image"
	}
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#1f1f2e"/>`+
			`<text x="50%%" y="50%%" fill="#8a8aa3" font-family="sans-serif" font-size="%d" text-anchor="middle" dominant-baseline="middle">%s</text>`+
			`</svg>`,
		w, h, w, h, fontSize(w), html.EscapeString(label),
	)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

func fontSize(w int) int {
	if s := w / 12; s > 8 {
		return s
	}
	return 8
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
