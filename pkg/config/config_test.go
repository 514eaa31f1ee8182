package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: dprate
  log_level: debug
rates:
  source: s3
  s3:
    region: us-east-1
    bucket: rates-bucket
    key: shipping/rates.xlsx
  cache_ttl: 10m
lmstfy:
  host: 127.0.0.1
  port: 7777
  namespace: dprate
  token: secret
workers:
  - name: shipping_rate_worker
    queue_name: shipping_rate_jobs
    callback_queue: shipping_rate_callbacks
    subscriber:
      threads: 2
      ttr: 30s
    processor:
      threads: 4
      timeout: 20s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "dprate", cfg.App.Name)
	assert.Equal(t, SourceS3, cfg.Rates.Source)
	assert.Equal(t, "rates-bucket", cfg.Rates.S3.Bucket)
	assert.Equal(t, 10*time.Minute, cfg.Rates.CacheTTL)
	assert.True(t, cfg.Rates.Configured())

	// 默认值
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 8*time.Second, cfg.Server.MaxJobWait)
	assert.Equal(t, "shipping:rates:aggregate", cfg.Rates.CacheKey)
	assert.Equal(t, CacheBackendMemory, cfg.Rates.CacheBackend)
	assert.Equal(t, "shipping_rate_result", cfg.Notify.ChannelPrefix)

	require.Len(t, cfg.Workers, 1)
	w := cfg.Workers[0]
	assert.Equal(t, "shipping_rate_jobs", w.QueueName)
	assert.Equal(t, 30*time.Second, w.Subscriber.TTR)
	assert.Equal(t, 4, w.Processor.Threads)

	require.NoError(t, cfg.ValidateWorker())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DPRATE_APP_LOG_LEVEL", "warn")
	t.Setenv("DPRATE_RATES_CACHE_TTL", "5m")
	t.Setenv("DPRATE_SERVER_ADDR", ":9090")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.Rates.CacheTTL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:   AppConfig{Name: "dprate"},
			Rates: RatesConfig{Source: SourceFile, CacheBackend: CacheBackendMemory},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.App.Name = ""
	assert.EqualError(t, cfg.Validate(), "app.name is required")

	cfg = valid()
	cfg.Rates.Source = "gsheet"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Rates.CacheBackend = CacheBackendRedis
	assert.Error(t, cfg.Validate())
	cfg.Redis.Addr = "127.0.0.1:6379"
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Server.JobQueue = "shipping_rate_jobs"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	assert.EqualError(t, cfg.ValidateWorker(), "lmstfy.host is required")
	cfg.Lmstfy.Host = "127.0.0.1"
	assert.EqualError(t, cfg.ValidateWorker(), "at least one worker is required")
	cfg.Workers = []WorkerConfig{{Name: "w"}}
	assert.EqualError(t, cfg.ValidateWorker(), `worker "w": queue_name is required`)
}

func TestRatesConfigured(t *testing.T) {
	assert.False(t, RatesConfig{Source: SourceFile}.Configured())
	assert.True(t, RatesConfig{Source: SourceFile, FilePath: "rates.xlsx"}.Configured())
	assert.False(t, RatesConfig{Source: SourceS3, S3: S3Config{Bucket: "b"}}.Configured())
	assert.False(t, RatesConfig{Source: "other", FilePath: "x"}.Configured())
}
