package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/logger"
)

// DefaultCleanupInterval 默认清理间隔
const DefaultCleanupInterval = 5 * time.Minute

// Sweeper 可被定期清理的容器，例如分页控制器注册表
type Sweeper interface {
	Sweep() int
}

// CleanupService 清理服务：定期淘汰闲置过期的访客控制器
type CleanupService struct {
	target   Sweeper
	interval time.Duration
	log      *logrus.Entry
}

// NewCleanupService 创建清理服务，interval <= 0 时使用默认间隔
func NewCleanupService(target Sweeper, interval time.Duration, log *logrus.Logger) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupService{
		target:   target,
		interval: interval,
		log:      logger.Component(log, "cleanup"),
	}
}

// Start 启动定时清理任务，ctx 结束时退出
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce()
			}
		}
	}()
}

// RunOnce 执行一次清理，返回淘汰数量
func (s *CleanupService) RunOnce() int {
	removed := s.target.Sweep()
	if removed > 0 {
		s.log.WithField("removed", removed).Info("已清理过期控制器")
	}
	return removed
}
