// Package controller 分页控制器：管理加载状态、序号防护、超时和地址同步
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/catalog"
	"github.com/user/cinehub/internal/listing"
	"github.com/user/cinehub/internal/logger"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/pagination"
)

// DefaultTimeout 单次加载的最长等待时间
const DefaultTimeout = 10 * time.Second

var (
	// ErrOutOfRange 请求的页码不在 [1, 总页数] 内，不发请求
	ErrOutOfRange = errors.New("page out of range")
	// ErrSuperseded 结果已过期，已有更新的请求
	ErrSuperseded = errors.New("superseded by a newer request")
)

// TimeoutError 等待超时，请求被放弃
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.After)
}

// State 控制器状态
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MarshalText JSON 中输出状态名
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Fetcher 获取一页原始列表
type Fetcher interface {
	Fetch(ctx context.Context, q model.PageQuery) (*catalog.Listing, error)
}

// FetcherFunc 函数适配为 Fetcher
type FetcherFunc func(ctx context.Context, q model.PageQuery) (*catalog.Listing, error)

func (f FetcherFunc) Fetch(ctx context.Context, q model.PageQuery) (*catalog.Listing, error) {
	return f(ctx, q)
}

// Location 地址栏同步，加载成功后写回实际页码（替换，不新增历史记录）
type Location interface {
	ReplacePage(page int)
}

// LocationFunc 函数适配为 Location
type LocationFunc func(page int)

func (f LocationFunc) ReplacePage(page int) { f(page) }

// NoLocation 不需要同步地址时使用
var NoLocation Location = LocationFunc(func(int) {})

// Ticket 一次加载的凭证，结果只有在序号仍是最新时才会生效
type Ticket struct {
	seq   uint64
	query model.PageQuery
	loc   Location
}

// Seq 序号
func (t Ticket) Seq() uint64 { return t.seq }

// Query 本次请求的条件
func (t Ticket) Query() model.PageQuery { return t.query }

// Snapshot 控制器状态的只读副本
type Snapshot struct {
	State      State                 `json:"state"`
	Seq        uint64                `json:"seq"`
	Query      model.PageQuery       `json:"query"`
	Pagination model.PaginationState `json:"pagination"`
	Items      []model.ItemSummary   `json:"items"`
	// Fetched 本地过滤前资源站返回的条数
	Fetched int    `json:"fetched"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

// Empty 加载成功但没有可展示的条目
func (s Snapshot) Empty() bool {
	return s.State == StateLoaded && len(s.Items) == 0
}

// ErrorKind 失败原因分类
func (s Snapshot) ErrorKind() string {
	return ErrorKind(s.Err)
}

// ErrorKind 错误分类：timeout / network / decode / other，nil 返回空串
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var (
		timeoutErr *TimeoutError
		netErr     *catalog.NetworkError
		decodeErr  *catalog.DecodeError
	)
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "other"
	}
}

// Controller 一个视图的分页状态机，并发安全
type Controller struct {
	fetcher Fetcher
	timeout time.Duration
	log     *logrus.Entry

	mu         sync.Mutex
	seq        uint64
	state      State
	query      model.PageQuery
	pagination model.PaginationState
	totalKnown bool
	items      []model.ItemSummary
	fetched    int
	err        error
}

// Option 控制器选项
type Option func(*Controller)

// WithTimeout 设置加载超时
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger 设置日志
func WithLogger(log *logrus.Logger) Option {
	return func(c *Controller) { c.log = logger.Component(log, "controller") }
}

// New 创建控制器，初始为 Idle，条件为默认值
func New(f Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: f,
		timeout: DefaultTimeout,
		log:     logger.Component(logger.Discard(), "controller"),
		query:   model.NewPageQuery(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot 当前状态
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:      c.state,
		Seq:        c.seq,
		Query:      c.query,
		Pagination: c.pagination,
		Items:      c.items,
		Fetched:    c.fetched,
		Err:        c.err,
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}

// Query 当前条件
func (c *Controller) Query() model.PageQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Begin 开始一次加载：检查页码范围，递增序号并进入 Loading
func (c *Controller) Begin(q model.PageQuery, loc Location) (Ticket, error) {
	if loc == nil {
		loc = NoLocation
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	same := q.SameCriteria(c.query)
	if q.Page < 1 || (same && c.totalKnown && !c.pagination.Contains(q.Page)) {
		c.log.WithFields(logrus.Fields{
			"page":  q.Page,
			"total": c.pagination.TotalPages,
		}).Debug("page out of range, ignored")
		return Ticket{}, ErrOutOfRange
	}

	if !same {
		c.totalKnown = false
		c.pagination = model.PaginationState{}
	}
	c.seq++
	c.state = StateLoading
	c.query = q
	c.pagination.CurrentPage = q.Page
	c.items = nil
	c.fetched = 0
	c.err = nil

	return Ticket{seq: c.seq, query: q, loc: loc}, nil
}

// Complete 应用一次加载的结果；凭证已过期时返回 ErrSuperseded 且不改变状态
func (c *Controller) Complete(t Ticket, l *catalog.Listing, fetchErr error) (Snapshot, error) {
	c.mu.Lock()

	if t.seq != c.seq || c.state != StateLoading {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.log.WithFields(logrus.Fields{"seq": t.seq, "current": snap.Seq}).Debug("stale response dropped")
		return snap, ErrSuperseded
	}

	if fetchErr != nil {
		c.state = StateFailed
		c.err = fetchErr
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.log.WithError(fetchErr).WithFields(logrus.Fields{
			"seq":  t.seq,
			"page": t.query.Page,
		}).Warn("load failed")
		return snap, nil
	}

	var (
		raw  []model.ItemSummary
		meta map[string]any
	)
	if l != nil {
		raw, meta = l.Items, l.Pagination
	}

	page := t.query.Page
	total := pagination.TotalPages(meta, len(raw), page)
	// 超出总页数时直接显示最后一页，不重新请求
	state := model.PaginationState{CurrentPage: page, TotalPages: total}.Clamp()

	c.state = StateLoaded
	c.query = t.query.WithPage(state.CurrentPage)
	c.pagination = state
	c.totalKnown = true
	c.items = listing.Apply(raw, t.query.Filter, t.query.Sort)
	c.fetched = len(raw)
	c.err = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	t.loc.ReplacePage(state.CurrentPage)
	return snap, nil
}

// Load 开始加载并在超时时间内等待结果；超时后请求被取消，迟到的结果被忽略
func (c *Controller) Load(ctx context.Context, q model.PageQuery, loc Location) (Snapshot, error) {
	t, err := c.Begin(q, loc)
	if err != nil {
		return c.Snapshot(), err
	}
	return c.run(ctx, t)
}

// Retry 重新加载当前条件
func (c *Controller) Retry(ctx context.Context, loc Location) (Snapshot, error) {
	return c.Load(ctx, c.Query(), loc)
}

// GoTo 只切换页码
func (c *Controller) GoTo(ctx context.Context, page int, loc Location) (Snapshot, error) {
	return c.Load(ctx, c.Query().WithPage(page), loc)
}

type result struct {
	listing *catalog.Listing
	err     error
}

func (c *Controller) run(ctx context.Context, t Ticket) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// 带缓冲，超时后 goroutine 写入也不会阻塞
	ch := make(chan result, 1)
	go func() {
		l, err := c.fetcher.Fetch(ctx, t.query)
		ch <- result{listing: l, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.err = &TimeoutError{After: c.timeout}
		}
		return c.Complete(t, r.listing, r.err)
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = &TimeoutError{After: c.timeout}
		}
		return c.Complete(t, nil, err)
	}
}
