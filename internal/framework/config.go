package framework

import "time"

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	QueueName    string        // 队列名称
	Concurrency  int           // 并发拉取数
	Timeout      time.Duration // 拉取超时（lmstfy 长轮询，秒级）
	TTR          time.Duration // Time-To-Run，超过未 ACK 则重新投递
	Rate         time.Duration // 拉取间隔
	ErrorBackoff time.Duration // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Concurrency int           // 并发处理数
	BufferSize  int           // inputChan 缓冲区大小
	Timeout     time.Duration // 单个消息处理超时
}

// WithDefaults 填充未配置的字段
func (c SubscriberConfig) WithDefaults() SubscriberConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.Timeout < time.Second {
		c.Timeout = 3 * time.Second
	}
	if c.TTR < time.Second {
		c.TTR = 30 * time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = time.Second
	}
	return c
}

// WithDefaults 填充未配置的字段
func (c ProcessorConfig) WithDefaults() ProcessorConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.BufferSize < 0 {
		c.BufferSize = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}
