package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/dprate/pkg/config"
	"oip/dprate/pkg/errorutil"
	"oip/dprate/pkg/logger"
)

func TestNewRateStackUnconfigured(t *testing.T) {
	cfg := &config.Config{
		App:   config.AppConfig{Name: "dprate"},
		Rates: config.RatesConfig{Source: config.SourceFile, CacheBackend: config.CacheBackendMemory},
	}
	stack, err := NewRateStack(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer stack.Close()

	assert.Nil(t, stack.Provider)
	assert.Nil(t, stack.Redis)
	_, err = stack.Service.ListCountries(context.Background())
	assert.True(t, errorutil.IsReason(err, errorutil.ReasonServiceNotConfigured))
}

func TestNewRateStackFileWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		App:   config.AppConfig{Name: "dprate"},
		Redis: config.RedisConfig{Addr: mr.Addr()},
		Rates: config.RatesConfig{
			Source:       config.SourceFile,
			FilePath:     "/nonexistent/rates.xlsx",
			CacheBackend: config.CacheBackendRedis,
		},
	}
	stack, err := NewRateStack(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer stack.Close()

	require.NotNil(t, stack.Provider)
	require.NotNil(t, stack.Redis)
	assert.Equal(t, "file:///nonexistent/rates.xlsx", stack.Provider.Source())

	// 文件不存在：数据源不可用
	_, err = stack.Service.ListCountries(context.Background())
	assert.True(t, errorutil.IsReason(err, errorutil.ReasonServiceNotConfigured))
}

func TestNewRateStackRedisUnreachable(t *testing.T) {
	cfg := &config.Config{
		App:   config.AppConfig{Name: "dprate"},
		Redis: config.RedisConfig{Addr: "127.0.0.1:1"},
		Rates: config.RatesConfig{Source: config.SourceFile, CacheBackend: config.CacheBackendRedis},
	}
	_, err := NewRateStack(context.Background(), cfg, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestNewRateStackMemoryCacheStillConnectsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		App:   config.AppConfig{Name: "dprate"},
		Redis: config.RedisConfig{Addr: mr.Addr()},
		Rates: config.RatesConfig{Source: config.SourceFile, CacheBackend: config.CacheBackendMemory},
	}
	stack, err := NewRateStack(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer stack.Close()

	// 结果通知依赖 Redis，与缓存后端无关
	require.NotNil(t, stack.Redis)
	assert.Empty(t, mr.Keys())
}
