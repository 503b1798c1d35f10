// Package web 内嵌页面模板和静态资源，部署时只需一个二进制
package web

import "embed"

//go:embed templates static
var FS embed.FS
