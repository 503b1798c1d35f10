package catalog

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/logger"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// FooterLimit 页脚每个分面展示的条数
const FooterLimit = 12

// SuggestLimit 搜索下拉最多展示的条数
const SuggestLimit = 5

// DefaultFlightTimeout 合并请求的最长等待时间，与单个调用方的超时无关
const DefaultFlightTimeout = 10 * time.Second

// FallbackTTL 分面接口失败后，页脚直接使用兜底列表的时间
const FallbackTTL = time.Minute

// Footer 页脚的三个分面列表
type Footer struct {
	Genres    []model.FacetEntry `json:"genres"`
	Countries []model.FacetEntry `json:"countries"`
	Years     []model.FacetEntry `json:"years"`
}

// 接口不可用时的兜底分面
var fallbackFacets = map[model.FacetKind][]model.FacetEntry{
	model.FacetGenre: {
		{Name: "Hành Động", Slug: "hanh-dong"},
		{Name: "Hài Hước", Slug: "hai-huoc"},
		{Name: "Tình Cảm", Slug: "tinh-cam"},
		{Name: "Kinh Dị", Slug: "kinh-di"},
		{Name: "Hoạt Hình", Slug: "hoat-hinh"},
	},
	model.FacetCountry: {
		{Name: "Việt Nam", Slug: "viet-nam"},
		{Name: "Hàn Quốc", Slug: "han-quoc"},
		{Name: "Thái Lan", Slug: "thai-lan"},
		{Name: "Mỹ", Slug: "my"},
		{Name: "Trung Quốc", Slug: "trung-quoc"},
	},
	model.FacetYear: {
		{Name: "2025", Slug: "2025"},
		{Name: "2024", Slug: "2024"},
		{Name: "2023", Slug: "2023"},
		{Name: "2022", Slug: "2022"},
		{Name: "2021", Slug: "2021"},
	},
}

// Service 在客户端之上做接口选择、去重和分面缓存
type Service struct {
	client        *Client
	facets        *cache.Cache
	group         singleflight.Group
	flightTimeout time.Duration
	log           *logrus.Entry
}

// ServiceOption 服务选项
type ServiceOption func(*Service)

// WithFlightTimeout 设置合并请求的超时
func WithFlightTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.flightTimeout = d
		}
	}
}

// NewService 创建服务，facetTTL 为分面索引缓存时间
func NewService(client *Client, facetTTL time.Duration, log *logrus.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:        client,
		facets:        utils.NewMemoryCache(facetTTL),
		flightTimeout: DefaultFlightTimeout,
		log:           logger.Component(log, "catalog-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// shared 合并同 key 的并发请求。请求本身不随任何一个调用方取消，
// 每个调用方只在自己的 ctx 结束时提前返回
func (s *Service) shared(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.flightTimeout)
		defer cancel()
		return fn(fctx)
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// EndpointFor 按条件选择接口：搜索词 > 具体分面 > 最新更新
func EndpointFor(q model.PageQuery) Endpoint {
	switch {
	case q.Search != "":
		return Search(q.Search, q.Page)
	case q.Facet.Kind.Path() != "" && !q.Facet.IsAll():
		return Category(q.Facet.Kind, q.Facet.Slug, q.Page)
	default:
		return Latest(q.Page)
	}
}

// Fetch 获取一页列表
func (s *Service) Fetch(ctx context.Context, q model.PageQuery) (*Listing, error) {
	env, err := s.client.Get(ctx, EndpointFor(q))
	if err != nil {
		return nil, err
	}
	return env.Listing(), nil
}

// Suggest 搜索下拉：第一页的前 limit 条
func (s *Service) Suggest(ctx context.Context, term string, limit int) ([]model.ItemSummary, error) {
	if limit <= 0 {
		limit = SuggestLimit
	}
	listing, err := s.Fetch(ctx, model.NewPageQuery().WithSearch(term))
	if err != nil {
		return nil, err
	}
	items := listing.Items
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Detail 获取详情，影片不存在时返回 nil, nil
func (s *Service) Detail(ctx context.Context, slug string) (*model.ItemDetail, error) {
	// 使用 singleflight 避免同一影片并发重复请求
	val, err := s.shared(ctx, "detail:"+slug, func(ctx context.Context) (interface{}, error) {
		env, err := s.client.Get(ctx, Detail(slug))
		if err != nil {
			return nil, err
		}
		return env.Detail(), nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.ItemDetail), nil
}

// FacetIndex 获取分面索引，成功结果缓存
func (s *Service) FacetIndex(ctx context.Context, kind model.FacetKind) ([]model.FacetEntry, error) {
	key := "facet:" + kind.String()
	if v, ok := s.facets.Get(key); ok {
		return v.([]model.FacetEntry), nil
	}

	val, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		env, err := s.client.Get(ctx, FacetIndex(kind))
		if err != nil {
			return nil, err
		}
		entries := env.Facets()
		// 空列表不缓存，下次再试
		if len(entries) > 0 {
			s.facets.SetDefault(key, entries)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return val.([]model.FacetEntry), nil
}

// Footer 并发获取三个分面，失败或为空时使用兜底列表，不会返回错误
func (s *Service) Footer(ctx context.Context) Footer {
	var footer Footer
	targets := []struct {
		kind model.FacetKind
		dst  *[]model.FacetEntry
	}{
		{model.FacetGenre, &footer.Genres},
		{model.FacetCountry, &footer.Countries},
		{model.FacetYear, &footer.Years},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			downKey := "facet-down:" + t.kind.String()
			if _, down := s.facets.Get(downKey); down {
				*t.dst = fallbackFacets[t.kind]
				return nil
			}
			entries, err := s.FacetIndex(gctx, t.kind)
			if err != nil || len(entries) == 0 {
				if err != nil {
					s.log.WithError(err).WithField("facet", t.kind.String()).Warn("facet index unavailable, using fallback")
				}
				// 短时间内不再请求，避免每次渲染页面都等待失败的接口
				s.facets.Set(downKey, true, FallbackTTL)
				entries = fallbackFacets[t.kind]
			}
			if len(entries) > FooterLimit {
				entries = entries[:FooterLimit]
			}
			*t.dst = entries
			return nil
		})
	}
	_ = g.Wait()
	return footer
}
