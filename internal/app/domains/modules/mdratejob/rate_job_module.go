package mdratejob

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"oip/dprate/pkg/errorutil"
	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/logger"
	"oip/dprate/pkg/model"
)

// 任务默认存活时间（秒）
const defaultJobTTL = 600

// JobQueue 任务队列
type JobQueue interface {
	Publish(queue string, data []byte, ttl, delay uint32) (string, error)
}

// ResultChannel 任务结果频道
type ResultChannel interface {
	Channel(jobID string) string
	Subscribe(ctx context.Context, jobID string) *goredis.PubSub
}

// Submission 已投递的任务
type Submission struct {
	ID        string // 业务 ID，回调和结果频道都用它
	MessageID string // 队列返回的 job id
	RequestID string
	Channel   string // 结果频道，未配置 Redis 时为空
}

// RateJobModule 运费异步任务模块
// 职责：
// 1. 构造标准化任务消息并投递到 worker 队列
// 2. 需要时在结果频道上等待 worker 的通知（Smart Wait）
type RateJobModule struct {
	queue     JobQueue
	results   ResultChannel
	queueName string
	jobTTL    uint32
}

// NewRateJobModule 创建任务模块，results 为 nil 时只投递不等待
func NewRateJobModule(queue JobQueue, results ResultChannel, queueName string) *RateJobModule {
	return &RateJobModule{
		queue:     queue,
		results:   results,
		queueName: queueName,
		jobTTL:    defaultJobTTL,
	}
}

// CanWait 是否支持等待结果
func (m *RateJobModule) CanWait() bool {
	return m.results != nil
}

// SubmitCalculate 投递运费计算任务
func (m *RateJobModule) SubmitCalculate(ctx context.Context, query *model.ShippingRateQuery, wait time.Duration) (*Submission, *redis.RateResultNotification, error) {
	return m.submit(ctx, model.ActionShippingRateCalculate, query, wait)
}

// SubmitRefresh 投递缓存刷新任务
func (m *RateJobModule) SubmitRefresh(ctx context.Context, wait time.Duration) (*Submission, *redis.RateResultNotification, error) {
	return m.submit(ctx, model.ActionShippingRateRefresh, nil, wait)
}

func (m *RateJobModule) submit(ctx context.Context, action string, query *model.ShippingRateQuery, wait time.Duration) (*Submission, *redis.RateResultNotification, error) {
	sub := &Submission{
		ID:        uuid.New().String(),
		RequestID: logger.TraceID(ctx),
	}
	if sub.RequestID == "" {
		sub.RequestID = uuid.New().String()
	}

	// 先订阅再投递，避免 worker 先于订阅发布结果
	var ps *goredis.PubSub
	if wait > 0 && m.results != nil {
		ps = m.results.Subscribe(ctx, sub.ID)
		defer ps.Close()
		if _, err := ps.Receive(ctx); err != nil {
			return nil, nil, errorutil.ServiceNotConfigured("result channel is unavailable", err)
		}
	}
	if m.results != nil {
		sub.Channel = m.results.Channel(sub.ID)
	}

	data, err := json.Marshal(model.ShippingRateJob{
		Payload: model.ShippingRateJobPayload{
			Data: model.ShippingRateJobData{
				RequestID:  sub.RequestID,
				OrgID:      "0",
				ActionType: action,
				ID:         sub.ID,
				Data:       query,
			},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal rate job failed: %w", err)
	}

	sub.MessageID, err = m.queue.Publish(m.queueName, data, m.jobTTL, 0)
	if err != nil {
		return nil, nil, errorutil.ServiceNotConfigured("job queue is unavailable", err)
	}

	if ps == nil {
		return sub, nil, nil
	}
	result, err := waitForResult(ctx, ps, wait)
	if err != nil {
		return sub, nil, err
	}
	return sub, result, nil
}

// waitForResult 超时未收到结果时返回 nil, nil
func waitForResult(ctx context.Context, ps *goredis.PubSub, timeout time.Duration) (*redis.RateResultNotification, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case msg, ok := <-ps.Channel():
		if !ok {
			return nil, nil
		}
		var n redis.RateResultNotification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			return nil, fmt.Errorf("unmarshal rate result failed: %w", err)
		}
		return &n, nil
	case <-waitCtx.Done():
		return nil, nil
	}
}
