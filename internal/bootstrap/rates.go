package bootstrap

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"oip/dprate/internal/business/shipping"
	"oip/dprate/pkg/config"
	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/infra/sheets"
	"oip/dprate/pkg/logger"
)

// RateStack 费率服务及其依赖
type RateStack struct {
	Service  *shipping.RateService
	Provider *sheets.WorkbookProvider
	Redis    *goredis.Client
}

// Close 释放资源
func (s *RateStack) Close() {
	if s.Provider != nil {
		_ = s.Provider.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
}

// NewProvider 按配置创建工作簿数据源，未配置时返回 nil
func NewProvider(ctx context.Context, cfg config.RatesConfig) (*sheets.WorkbookProvider, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	switch cfg.Source {
	case config.SourceFile:
		return sheets.NewWorkbookProvider(sheets.NewFileSource(cfg.FilePath)), nil
	case config.SourceS3:
		src, err := sheets.NewS3Source(ctx, cfg.S3.Region, cfg.S3.Profile, cfg.S3.Bucket, cfg.S3.Key)
		if err != nil {
			return nil, err
		}
		return sheets.NewWorkbookProvider(src), nil
	}
	return nil, fmt.Errorf("unknown rates source %q", cfg.Source)
}

// NewRedis 创建 Redis 客户端，未配置地址时返回 nil
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	return redis.NewClient(ctx, cfg.Addr, cfg.Password, cfg.DB)
}

// NewRateStack 组装费率服务
// 数据源未配置时服务仍可创建，查询返回 ServiceNotConfigured
func NewRateStack(ctx context.Context, cfg *config.Config, log logger.Logger) (*RateStack, error) {
	stack := &RateStack{}

	provider, err := NewProvider(ctx, cfg.Rates)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate provider: %w", err)
	}
	stack.Provider = provider
	if provider == nil {
		log.Warnf(ctx, "[Bootstrap] rates source is not configured, calculations will fail with ServiceNotConfigured")
	} else {
		log.Infof(ctx, "[Bootstrap] rates source: %s", provider.Source())
	}

	// Redis 同时用于结果通知，配置了地址就连接
	client, err := NewRedis(ctx, cfg.Redis)
	if err != nil {
		stack.Close()
		return nil, err
	}
	stack.Redis = client

	var cache shipping.AggregateCache
	if cfg.Rates.CacheBackend == config.CacheBackendRedis && client != nil {
		cache = redis.NewAggregateCache(client, cfg.App.Name)
	} else {
		cache = shipping.NewMemoryCache()
	}

	var sp shipping.SheetProvider
	if provider != nil {
		sp = provider
	}
	stack.Service = shipping.NewRateService(sp, cache, log, shipping.ServiceOptions{
		CacheKey: cfg.Rates.CacheKey,
		CacheTTL: cfg.Rates.CacheTTL,
	})
	return stack, nil
}
