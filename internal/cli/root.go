// Package cli 命令行入口：在终端浏览资源站目录，或启动 Web 服务
package cli

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/user/cinehub/internal/catalog"
	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/logger"
)

// options 全局参数和按需初始化的依赖
type options struct {
	api     string
	timeout time.Duration
	noColor bool
	verbose bool

	cfg     *config.Config
	log     *logrus.Logger
	service *catalog.Service
	printer *Printer
}

// NewRootCmd 创建根命令，每次调用返回独立的命令树
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "cinehub",
		Short: "Browse the ophim movie catalog",
		Long: "cinehub browses the ophim movie catalog from the terminal: latest updates, search, " +
			"genre/country/year listings and movie details. `cinehub serve` starts the web UI.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	pf := root.PersistentFlags()
	pf.StringVar(&o.api, "api", "", "ophim API base URL (defaults to API_BASE_URL)")
	pf.DurationVar(&o.timeout, "timeout", 0, "request timeout (defaults to FETCH_TIMEOUT, 10s)")
	pf.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "write debug logs to stderr")

	root.AddCommand(
		newLatestCmd(o),
		newSearchCmd(o),
		newBrowseCmd(o),
		newShowCmd(o),
		newFacetsCmd(o),
		newServeCmd(o),
	)
	return root
}

// init 加载配置，命令行参数优先于环境变量
func (o *options) init(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.api != "" {
		cfg.APIBaseURL = strings.TrimRight(o.api, "/")
	}
	if o.timeout > 0 {
		cfg.FetchTimeout = o.timeout
	}
	o.cfg = cfg

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	o.log = logger.New(level)
	o.log.SetOutput(cmd.ErrOrStderr())

	client := catalog.NewClient(cfg.APIBaseURL, cfg.ImageBaseURL, catalog.WithLogger(o.log))
	o.log.WithField("api", client.BaseURL()).Debug("catalog client ready")
	o.service = catalog.NewService(client, cfg.FacetCacheTTL, o.log, catalog.WithFlightTimeout(cfg.FetchTimeout))
	o.printer = NewPrinter(cmd.OutOrStdout(), o.noColor)
	return nil
}
