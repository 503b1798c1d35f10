// Package app 组装并运行 HTTP 服务，供 cmd/server 和 cinehub serve 共用
package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/catalog"
	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/handler"
	"github.com/user/cinehub/internal/render"
	"github.com/user/cinehub/internal/router"
	"github.com/user/cinehub/internal/service"
)

// ShutdownTimeout 优雅关闭的最长等待时间
const ShutdownTimeout = 5 * time.Second

// NewServer 创建资源站客户端、渲染器、处理器和路由
func NewServer(cfg *config.Config, log *logrus.Logger) (*http.Server, error) {
	srv, _, err := build(cfg, log)
	return srv, err
}

func build(cfg *config.Config, log *logrus.Logger) (*http.Server, *handler.Handler, error) {
	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	client := catalog.NewClient(cfg.APIBaseURL, cfg.ImageBaseURL, catalog.WithLogger(log))
	svc := catalog.NewService(client, cfg.FacetCacheTTL, log, catalog.WithFlightTimeout(cfg.FetchTimeout))

	renderer, err := render.New()
	if err != nil {
		return nil, nil, err
	}

	h := handler.NewHandler(cfg, svc, renderer, log)
	r, err := router.New(h)
	if err != nil {
		return nil, nil, err
	}

	// WriteTimeout 需大于资源站超时
	return &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.FetchTimeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}, h, nil
}

// Run 启动服务，收到 SIGINT/SIGTERM 或 ctx 结束时优雅关闭
func Run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	if cfg.UsesDefaultSecret() {
		log.Warn("APP_SECRET 使用默认值，请在生产环境中修改")
	}

	srv, h, err := build(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 启动定时清理任务
	service.NewCleanupService(h.Controllers, cfg.SessionTTL/2, log).Start(ctx)

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	errCh := make(chan error, 1)
	go func() {
		log.Infof("服务器启动于 http://localhost:%s，资源站 %s", cfg.Port, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("服务器已退出")
	return nil
}
