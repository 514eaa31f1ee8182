package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "DPRATE"

// 费率数据源
const (
	SourceFile = "file"
	SourceS3   = "s3"
)

// 缓存后端
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config 全局配置
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Server  ServerConfig   `mapstructure:"server"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Lmstfy  LmstfyConfig   `mapstructure:"lmstfy"`
	Workers []WorkerConfig `mapstructure:"workers"`
	Rates   RatesConfig    `mapstructure:"rates"`
	Notify  NotifyConfig   `mapstructure:"notify"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	JobQueue     string        `mapstructure:"job_queue"`    // 异步任务投递队列，为空则不开放 /jobs 接口
	MaxJobWait   time.Duration `mapstructure:"max_job_wait"` // 同步等待任务结果的上限
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name          string           `mapstructure:"name"`
	QueueName     string           `mapstructure:"queue_name"`
	CallbackQueue string           `mapstructure:"callback_queue"` // 回调队列名称
	Subscriber    SubscriberConfig `mapstructure:"subscriber"`
	Processor     ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取速率
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`     // 并发处理数
	BufferSize int           `mapstructure:"buffer_size"` // Channel 缓冲大小
	Timeout    time.Duration `mapstructure:"timeout"`     // 单个任务超时
}

// RatesConfig 费率表配置
type RatesConfig struct {
	Source       string        `mapstructure:"source"` // file / s3
	FilePath     string        `mapstructure:"file_path"`
	S3           S3Config      `mapstructure:"s3"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	CacheKey     string        `mapstructure:"cache_key"`
	CacheBackend string        `mapstructure:"cache_backend"` // redis / memory
}

// S3Config 费率表所在的 S3 对象
type S3Config struct {
	Region  string `mapstructure:"region"`
	Bucket  string `mapstructure:"bucket"`
	Key     string `mapstructure:"key"`
	Profile string `mapstructure:"profile"`
}

// NotifyConfig 结果通知配置
type NotifyConfig struct {
	ChannelPrefix string `mapstructure:"channel_prefix"`
}

// Configured 是否配置了费率数据源
func (r RatesConfig) Configured() bool {
	switch r.Source {
	case SourceFile:
		return r.FilePath != ""
	case SourceS3:
		return r.S3.Bucket != "" && r.S3.Key != ""
	}
	return false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.max_job_wait", 8*time.Second)
	v.SetDefault("rates.source", SourceFile)
	v.SetDefault("rates.cache_ttl", 30*time.Minute)
	v.SetDefault("rates.cache_key", "shipping:rates:aggregate")
	v.SetDefault("rates.cache_backend", CacheBackendMemory)
	v.SetDefault("notify.channel_prefix", "shipping_rate_result")
}

// Load 加载配置文件，环境变量 DPRATE_<SECTION>_<KEY> 覆盖文件配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证通用配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	switch c.Rates.Source {
	case SourceFile, SourceS3:
	default:
		return fmt.Errorf("rates.source must be %q or %q, got %q", SourceFile, SourceS3, c.Rates.Source)
	}
	if c.Server.JobQueue != "" && c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required when server.job_queue is set")
	}
	switch c.Rates.CacheBackend {
	case CacheBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when rates.cache_backend is redis")
		}
	case CacheBackendMemory:
	default:
		return fmt.Errorf("rates.cache_backend must be %q or %q, got %q",
			CacheBackendRedis, CacheBackendMemory, c.Rates.CacheBackend)
	}
	return nil
}

// ValidateWorker 验证 Worker 进程所需配置
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	for _, w := range c.Workers {
		if w.QueueName == "" {
			return fmt.Errorf("worker %q: queue_name is required", w.Name)
		}
	}
	return nil
}
