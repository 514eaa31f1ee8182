package shipping

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"oip/dprate/pkg/errorutil"
	"oip/dprate/pkg/logger"
)

const (
	// DefaultCacheKey 合并结果的缓存 key
	DefaultCacheKey = "shipping:rates:aggregate"
	// DefaultCacheTTL 缓存有效期
	DefaultCacheTTL = 30 * time.Minute
	// DefaultRebuildTimeout 单次回源的超时
	DefaultRebuildTimeout = time.Minute
)

// SheetProvider 表格数据源
type SheetProvider interface {
	ListTabNames(ctx context.Context) ([]string, error)
	FetchTabRows(ctx context.Context, tabName string) ([][]Cell, error)
}

// AggregateCache 带 TTL 的缓存
type AggregateCache interface {
	Get(ctx context.Context, key string) (*Aggregate, bool, error)
	Set(ctx context.Context, key string, agg *Aggregate, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// ServiceOptions RateService 可选配置
type ServiceOptions struct {
	CacheKey       string
	CacheTTL       time.Duration
	RebuildTimeout time.Duration
}

// RateService 费率服务：读缓存，未命中时并发拉取所有 tab → 解析 → 合并 → 回写缓存
type RateService struct {
	provider       SheetProvider
	cache          AggregateCache
	logger         logger.Logger
	cacheKey       string
	cacheTTL       time.Duration
	rebuildTimeout time.Duration
	group          singleflight.Group
}

// NewRateService 创建费率服务
// provider 为 nil 表示数据源未配置，所有查询返回 ServiceNotConfigured
func NewRateService(provider SheetProvider, cache AggregateCache, log logger.Logger, opts ServiceOptions) *RateService {
	if opts.CacheKey == "" {
		opts.CacheKey = DefaultCacheKey
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.RebuildTimeout <= 0 {
		opts.RebuildTimeout = DefaultRebuildTimeout
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RateService{
		provider:       provider,
		cache:          cache,
		logger:         log,
		cacheKey:       opts.CacheKey,
		cacheTTL:       opts.CacheTTL,
		rebuildTimeout: opts.RebuildTimeout,
	}
}

// Calculate 校验请求并计算运费
func (s *RateService) Calculate(ctx context.Context, req *CalculateRequest) (*CalculationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	agg, err := s.Aggregate(ctx)
	if err != nil {
		return nil, err
	}

	result, err := Resolve(agg, req)
	if err != nil {
		s.logger.Infof(ctx, "[RateService] calculate rejected: country=%s, line=%s, zone=%s, reason=%s",
			req.Country, req.ShippingLine, req.Zone, errorutil.ReasonOf(err))
		return nil, err
	}

	s.logger.Debugf(ctx, "[RateService] calculated: country=%s, line=%s, zone=%s, weight=%.2f%s, total=%.2f",
		result.Country, result.ShippingLine, result.Zone, result.WeightUsed, result.WeightUnit, result.TotalCost)
	return result, nil
}

// ListCountries 国家列表及每个国家的分区/线路信息
func (s *RateService) ListCountries(ctx context.Context) (*CountryListing, error) {
	agg, err := s.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	return agg.Listing(), nil
}

// Aggregate 获取合并数据，优先读缓存
func (s *RateService) Aggregate(ctx context.Context) (*Aggregate, error) {
	if s.provider == nil {
		return nil, errorutil.ServiceNotConfigured("shipping rate spreadsheet is not configured", nil)
	}

	agg, ok, err := s.cache.Get(ctx, s.cacheKey)
	if err != nil {
		// 缓存故障不影响可用性，直接回源
		s.logger.Warnf(ctx, "[RateService] cache get failed: %v", err)
	}
	if ok && agg != nil {
		return agg, nil
	}

	// 同一个 key 的并发未命中只回源一次；回源不跟随单个调用方的取消
	ch := s.group.DoChan(s.cacheKey, func() (interface{}, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.rebuildTimeout)
		defer cancel()
		return s.rebuild(rctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Aggregate), nil
	case <-ctx.Done():
		return nil, errorutil.ServiceNotConfigured("shipping rates are still loading", ctx.Err())
	}
}

// Refresh 清除缓存并立即重建
func (s *RateService) Refresh(ctx context.Context) (*Aggregate, error) {
	if err := s.ClearCache(ctx); err != nil {
		return nil, err
	}
	return s.Aggregate(ctx)
}

// ClearCache 清除缓存
func (s *RateService) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear rate cache failed: %w", err)
	}
	s.logger.Infof(ctx, "[RateService] cache cleared")
	return nil
}

// rebuild 全量拉取、解析、合并并写入缓存
func (s *RateService) rebuild(ctx context.Context) (*Aggregate, error) {
	startTime := time.Now()

	tabs, err := s.fetchTabs(ctx)
	if err != nil {
		return nil, err
	}

	agg := Merge(tabs)

	// 超时或所有 tab 都拉取失败时不写缓存，避免把空结果当成"无费率"
	if err := ctx.Err(); err != nil {
		return nil, errorutil.ServiceNotConfigured("shipping rate spreadsheet fetch timed out", err)
	}
	if agg.TabCount == 0 && len(tabs) > 0 {
		return nil, errorutil.ServiceNotConfigured(
			fmt.Sprintf("all %d shipping rate tabs failed to load", len(tabs)), nil)
	}

	if err := s.cache.Set(ctx, s.cacheKey, agg, s.cacheTTL); err != nil {
		s.logger.Warnf(ctx, "[RateService] cache set failed: %v", err)
	}

	s.logger.Infof(ctx, "[RateService] rates rebuilt: tabs=%d, parsed=%d, countries=%d, duration=%v",
		len(tabs), agg.TabCount, len(agg.Countries), time.Since(startTime))
	return agg, nil
}

// fetchTabs 并发拉取所有 tab（fan-out/fan-in），单个 tab 失败只记录日志
func (s *RateService) fetchTabs(ctx context.Context) ([]TabResult, error) {
	names, err := s.provider.ListTabNames(ctx)
	if err != nil {
		return nil, errorutil.ServiceNotConfigured("shipping rate spreadsheet is unavailable", err)
	}

	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if IsExcludedTab(name) {
			s.logger.Debugf(ctx, "[RateService] skip tab: %s", name)
			continue
		}
		filtered = append(filtered, name)
	}

	results := make([]TabResult, len(filtered))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range filtered {
		i, name := i, name
		results[i] = TabResult{TabName: name}
		g.Go(func() error {
			tabCtx := logger.WithTabName(gctx, name)
			rows, err := s.provider.FetchTabRows(tabCtx, name)
			if err != nil {
				s.logger.Warnf(tabCtx, "[RateService] fetch tab failed, skipped: %v", err)
				return nil
			}
			results[i].Parsed = ParseTab(rows, name)
			s.logger.Debugf(tabCtx, "[RateService] tab parsed: rows=%d, countries=%d",
				len(rows), len(results[i].Parsed.Countries))
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}
