package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/render"
)

// Printer 终端输出：表格 + 彩色状态行
type Printer struct {
	w io.Writer

	TitleStyle   *color.Color
	LabelStyle   *color.Color
	PageStyle    *color.Color
	MutedStyle   *color.Color
	ErrorStyle   *color.Color
	WarningStyle *color.Color
}

// NewPrinter noColor 为 true 时输出纯文本
func NewPrinter(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:            w,
		TitleStyle:   color.New(color.Bold, color.FgHiWhite),
		LabelStyle:   color.New(color.FgHiBlue),
		PageStyle:    color.New(color.Bold, color.FgCyan),
		MutedStyle:   color.New(color.FgHiBlack),
		ErrorStyle:   color.New(color.FgRed),
		WarningStyle: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{p.TitleStyle, p.LabelStyle, p.PageStyle, p.MutedStyle, p.ErrorStyle, p.WarningStyle} {
			c.DisableColor()
		}
	}
	return p
}

// table 左对齐表格
func (p *Printer) table(headers []string, rows [][]string) error {
	table := tablewriter.NewTable(p.w)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Alignment.Global = tw.AlignLeft
		cfg.Row.Alignment.Global = tw.AlignLeft
		cfg.Header.Padding.Global = tw.Padding{Left: " ", Right: " "}
		cfg.Row.Padding.Global = tw.Padding{Left: " ", Right: " "}
	})
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// Listing 打印控制器快照；失败时打印原因并返回错误
func (p *Printer) Listing(snap controller.Snapshot) error {
	if snap.State == controller.StateFailed {
		fmt.Fprintln(p.w, p.ErrorStyle.Sprint(render.ErrorMessage(snap.ErrorKind())))
		return snap.Err
	}

	if len(snap.Items) == 0 {
		fmt.Fprintln(p.w, p.WarningStyle.Sprint("No movies found."))
	} else {
		rows := make([][]string, 0, len(snap.Items))
		for i, m := range snap.Items {
			rows = append(rows, summaryRow(i+1, m))
		}
		if err := p.table([]string{"#", "Name", "Original name", "Year", "Type", "Quality", "Episode", "Slug"}, rows); err != nil {
			return err
		}
	}

	line := p.PageStyle.Sprintf("Page %d / %d", snap.Pagination.CurrentPage, snap.Pagination.TotalPages)
	if snap.Fetched != len(snap.Items) {
		line += p.MutedStyle.Sprintf("  (%d of %d shown after filter)", len(snap.Items), snap.Fetched)
	}
	fmt.Fprintln(p.w, line)
	return nil
}

func summaryRow(n int, m model.ItemSummary) []string {
	year := render.MissingYear
	if m.Year > 0 {
		year = strconv.Itoa(m.Year)
	}
	quality := m.Quality
	if quality == "" {
		quality = render.DefaultQuality
	}
	episode := m.EpisodeCurrent
	if episode == "" {
		episode = render.DefaultEpisode
	}
	return []string{strconv.Itoa(n), m.Name, m.OriginName, year, m.Type.String(), quality, episode, m.Slug}
}

// Detail 打印影片详情和各服务器的剧集
func (p *Printer) Detail(d *model.ItemDetail) error {
	fmt.Fprintln(p.w, p.TitleStyle.Sprint(d.Name))
	if d.OriginName != "" {
		fmt.Fprintln(p.w, p.MutedStyle.Sprint(d.OriginName))
	}
	fmt.Fprintln(p.w)

	year := render.MissingYear
	if d.Year > 0 {
		year = strconv.Itoa(d.Year)
	}
	fields := [][2]string{
		{"Year", year},
		{"Type", d.Type.String()},
		{"Quality", d.Quality},
		{"Episode", d.EpisodeCurrent},
		{"Duration", d.Time},
		{"Genres", d.CategoryNames()},
		{"Country", d.CountryNames()},
		{"Director", strings.Join(d.Directors, ", ")},
		{"Cast", strings.Join(d.Actors, ", ")},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(p.w, "%s %s\n", p.LabelStyle.Sprintf("%-9s", f[0]+":"), f[1])
	}

	if len(d.Episodes) == 0 {
		fmt.Fprintln(p.w, p.WarningStyle.Sprint("No episodes available yet."))
		return nil
	}

	fmt.Fprintln(p.w)
	rows := make([][]string, 0, len(d.Episodes))
	for i, g := range d.Episodes {
		if len(g.Episodes) == 0 {
			continue
		}
		first, last := g.Episodes[0], g.Episodes[len(g.Episodes)-1]
		rows = append(rows, []string{strconv.Itoa(i), g.ServerName, strconv.Itoa(len(g.Episodes)), first.Name, last.Name, first.EmbedLink})
	}
	return p.table([]string{"#", "Server", "Episodes", "First", "Latest", "Embed"}, rows)
}

// Facets 打印分面索引
func (p *Printer) Facets(title string, entries []model.FacetEntry) error {
	fmt.Fprintln(p.w, p.TitleStyle.Sprint(title))
	if len(entries) == 0 {
		fmt.Fprintln(p.w, p.WarningStyle.Sprint("No entries."))
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Slug})
	}
	return p.table([]string{"Name", "Slug"}, rows)
}
