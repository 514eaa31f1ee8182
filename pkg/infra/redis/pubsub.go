package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PubSub Redis 发布/订阅客户端
type PubSub struct {
	client *redis.Client
	prefix string
}

// NewPubSub 创建 PubSub 实例，频道名为 <prefix>:<job id>
func NewPubSub(client *redis.Client, prefix string) *PubSub {
	return &PubSub{
		client: client,
		prefix: prefix,
	}
}

// RateResultNotification 运费计算完成通知消息
type RateResultNotification struct {
	JobID     string          `json:"job_id"`
	Action    string          `json:"action"`
	Status    string          `json:"status"` // SUCCESS/FAILED
	Result    json.RawMessage `json:"result,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Channel 任务对应的频道名称
func (p *PubSub) Channel(jobID string) string {
	if p.prefix == "" {
		return jobID
	}
	return p.prefix + ":" + jobID
}

// PublishRateResult 发布运费计算结果
func (p *PubSub) PublishRateResult(ctx context.Context, notification *RateResultNotification) error {
	// 序列化通知消息
	msgJSON, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// 发布到 Redis 频道
	if err := p.client.Publish(ctx, p.Channel(notification.JobID), msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Subscribe 订阅某个任务的结果频道
func (p *PubSub) Subscribe(ctx context.Context, jobID string) *redis.PubSub {
	return p.client.Subscribe(ctx, p.Channel(jobID))
}
