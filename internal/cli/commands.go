package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/cinehub/internal/app"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/logger"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
)

// listFlags 列表类命令共用的过滤、排序和页码
type listFlags struct {
	filter string
	sort   string
	page   int
}

func (f *listFlags) bind(cmd *cobra.Command, withFilter bool) {
	if withFilter {
		cmd.Flags().StringVar(&f.filter, "filter", "all", "content filter: all, phim-le, phim-bo, tv-shows, hoat-hinh")
	}
	cmd.Flags().StringVar(&f.sort, "sort", "latest", "sort order: latest, year, name")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number")
}

// query 解析参数；无法识别的过滤或排序直接报错
func (f *listFlags) query() (model.PageQuery, error) {
	filter := model.ParseFilterKind(f.filter)
	if filter == model.FilterUnknown {
		return model.PageQuery{}, fmt.Errorf("unknown filter %q", f.filter)
	}
	sort := model.ParseSortKey(f.sort)
	if sort == model.SortUnknown {
		return model.PageQuery{}, fmt.Errorf("unknown sort %q", f.sort)
	}
	if f.page < 1 {
		return model.PageQuery{}, fmt.Errorf("page must be >= 1, got %d", f.page)
	}
	return model.NewPageQuery().WithFilter(filter).WithSort(sort), nil
}

// runListing 通过分页控制器加载并打印一页
func (o *options) runListing(cmd *cobra.Command, q model.PageQuery) error {
	ctrl := controller.New(o.service,
		controller.WithTimeout(o.cfg.FetchTimeout),
		controller.WithLogger(o.log),
	)
	snap, err := ctrl.Load(cmd.Context(), q, controller.NoLocation)
	if err != nil {
		return err
	}
	return o.printer.Listing(snap)
}

func newLatestCmd(o *options) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "List recently updated movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}
			return o.runListing(cmd, q.WithPage(f.page))
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newSearchCmd(o *options) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search movies by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.query()
			if err != nil {
				return err
			}
			q = q.WithSearch(strings.Join(args, " "))
			if q.Search == "" {
				return fmt.Errorf("search term is empty")
			}
			return o.runListing(cmd, q.WithPage(f.page))
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newBrowseCmd(o *options) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "browse <the-loai|quoc-gia|nam-phat-hanh|danh-sach> [slug]",
		Short: "List movies by genre, country, year or collection",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.ParseFacetKind(args[0])
			if kind == model.FacetNone || kind == model.FacetInvalid {
				return fmt.Errorf("unsupported facet type %q", args[0])
			}
			slug := ""
			if len(args) == 2 {
				slug = args[1]
				if slug != "all" && !utils.IsSlug(slug) {
					return fmt.Errorf("invalid slug %q", slug)
				}
			}

			q, err := f.query()
			if err != nil {
				return err
			}
			return o.runListing(cmd, q.WithFacet(kind, slug).WithPage(f.page))
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show movie details and episode servers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if !utils.IsSlug(slug) {
				return fmt.Errorf("invalid slug %q", slug)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), o.cfg.FetchTimeout)
			defer cancel()

			movie, err := o.service.Detail(ctx, slug)
			if err != nil {
				return err
			}
			if movie == nil {
				return fmt.Errorf("movie %q not found", slug)
			}
			return o.printer.Detail(movie)
		},
	}
}

func newFacetsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "facets [the-loai|quoc-gia|nam-phat-hanh]",
		Short: "List genres, countries or years",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.cfg.FetchTimeout)
			defer cancel()

			if len(args) == 0 {
				footer := o.service.Footer(ctx)
				for _, group := range []struct {
					title   string
					entries []model.FacetEntry
				}{
					{"Genres", footer.Genres},
					{"Countries", footer.Countries},
					{"Years", footer.Years},
				} {
					if err := o.printer.Facets(group.title, group.entries); err != nil {
						return err
					}
				}
				return nil
			}

			kind := model.ParseFacetKind(args[0])
			switch kind {
			case model.FacetGenre, model.FacetCountry, model.FacetYear:
			default:
				return fmt.Errorf("unsupported facet type %q", args[0])
			}
			entries, err := o.service.FacetIndex(ctx, kind)
			if err != nil {
				return err
			}
			return o.printer.Facets(kind.Label(), entries)
		},
	}
}

func newServeCmd(o *options) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				o.cfg.Port = port
			}
			// 服务日志按配置级别输出到标准输出
			log := logger.New(o.cfg.LogLevel)
			if o.verbose {
				log = logger.New("debug")
			}
			return app.Run(cmd.Context(), o.cfg, log)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to PORT)")
	return cmd
}
