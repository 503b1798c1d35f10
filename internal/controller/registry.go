package controller

import (
	"time"

	"github.com/user/cinehub/internal/utils"
)

// Registry 按访客会话和视图保存控制器，长时间不活跃的会被淘汰
type Registry struct {
	controllers *utils.TTLCache[*Controller]
	fetcher     Fetcher
	opts        []Option
}

// NewRegistry capacity 为最多保留的控制器数量，ttl 为闲置过期时间
func NewRegistry(f Fetcher, capacity int, ttl time.Duration, opts ...Option) *Registry {
	return &Registry{
		controllers: utils.NewTTLCache[*Controller](capacity, ttl),
		fetcher:     f,
		opts:        opts,
	}
}

// Get 取出会话的控制器，不存在时创建
func (r *Registry) Get(sessionID, view string) *Controller {
	return r.controllers.GetOrCreate(sessionID+"|"+view, func() *Controller {
		return New(r.fetcher, r.opts...)
	})
}

// Len 当前保留的控制器数量
func (r *Registry) Len() int {
	return r.controllers.Len()
}

// Sweep 淘汰闲置过期的控制器，返回淘汰数量
func (r *Registry) Sweep() int {
	return r.controllers.RemoveExpired()
}
