package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/logger"
	"oip/dprate/pkg/model"
)

// QueuePublisher 回调队列（lmstfy）
type QueuePublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) (string, error)
}

// ResultPublisher 结果频道（Redis Pub/Sub）
type ResultPublisher interface {
	PublishRateResult(ctx context.Context, notification *redis.RateResultNotification) error
}

// CallbackService 回调服务
// 职责：任务结果 → callback 队列 + Redis 频道，二者任一未配置则跳过
type CallbackService struct {
	queue         QueuePublisher
	pubsub        ResultPublisher
	callbackQueue string
	logger        logger.Logger
}

// NewCallbackService 创建回调服务实例
func NewCallbackService(
	queue QueuePublisher,
	callbackQueue string,
	pubsub ResultPublisher,
	log logger.Logger,
) *CallbackService {
	return &CallbackService{
		queue:         queue,
		pubsub:        pubsub,
		callbackQueue: callbackQueue,
		logger:        log,
	}
}

// Send 发送回调
// 队列投递失败返回 error（由上层决定是否重投）；频道发布失败只记录日志
func (s *CallbackService) Send(ctx context.Context, callback *model.ShippingRateCallback) error {
	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	if s.queue != nil && s.callbackQueue != "" {
		// ttl=0 表示永不过期, delay=0 表示立即可用
		if _, err := s.queue.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
			return fmt.Errorf("failed to publish callback: %w", err)
		}
	}

	if s.pubsub != nil && callback.ID != "" {
		n := &redis.RateResultNotification{
			JobID:     callback.ID,
			Action:    callback.ActionType,
			Status:    callback.Status,
			Timestamp: callback.ProcessedAt,
		}
		switch {
		case callback.Result != nil:
			n.Result, _ = json.Marshal(callback.Result)
		case callback.Refresh != nil:
			n.Result, _ = json.Marshal(callback.Refresh)
		}
		if callback.Error != nil {
			n.Reason = callback.Error.Reason
			n.Message = callback.Error.Message
		}
		if err := s.pubsub.PublishRateResult(ctx, n); err != nil {
			s.logger.Warnf(ctx, "[CallbackService] publish result notification failed: %v", err)
		}
	}

	s.logger.Infof(ctx, "[CallbackService] callback sent: id=%s, status=%s", callback.ID, callback.Status)
	return nil
}
