package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/logger"
	"oip/dprate/pkg/model"
)

type published struct {
	queue string
	data  []byte
}

type fakeQueue struct {
	jobs []published
	err  error
}

func (q *fakeQueue) Publish(queue string, data []byte, _, _ uint32) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.jobs = append(q.jobs, published{queue: queue, data: data})
	return "job-1", nil
}

type fakePubSub struct {
	notifications []*redis.RateResultNotification
	err           error
}

func (p *fakePubSub) PublishRateResult(_ context.Context, n *redis.RateResultNotification) error {
	p.notifications = append(p.notifications, n)
	return p.err
}

func successCallback() *model.ShippingRateCallback {
	return &model.ShippingRateCallback{
		RequestID:  "req-1",
		ID:         "quote-1",
		ActionType: model.ActionShippingRateCalculate,
		Status:     model.CallbackStatusSuccess,
		Result: &model.ShippingQuote{
			Country:      "United States",
			ShippingLine: "standard",
			TotalCost:    44,
		},
		ProcessedAt: 1700000000,
	}
}

func TestCallbackServiceSend(t *testing.T) {
	q := &fakeQueue{}
	ps := &fakePubSub{}
	svc := NewCallbackService(q, "shipping_rate_callbacks", ps, logger.NewNopLogger())

	require.NoError(t, svc.Send(context.Background(), successCallback()))

	require.Len(t, q.jobs, 1)
	assert.Equal(t, "shipping_rate_callbacks", q.jobs[0].queue)
	var got model.ShippingRateCallback
	require.NoError(t, json.Unmarshal(q.jobs[0].data, &got))
	assert.Equal(t, "quote-1", got.ID)
	assert.Equal(t, 44.0, got.Result.TotalCost)

	require.Len(t, ps.notifications, 1)
	n := ps.notifications[0]
	assert.Equal(t, "quote-1", n.JobID)
	assert.Equal(t, model.CallbackStatusSuccess, n.Status)
	assert.Equal(t, int64(1700000000), n.Timestamp)
	assert.Contains(t, string(n.Result), `"total_cost":44`)
}

func TestCallbackServiceFailedCallback(t *testing.T) {
	ps := &fakePubSub{}
	svc := NewCallbackService(nil, "", ps, logger.NewNopLogger())

	cb := successCallback()
	cb.Status = model.CallbackStatusFailed
	cb.Result = nil
	cb.Error = &model.CallbackError{Reason: "RateNotFound", Message: "no rate"}
	require.NoError(t, svc.Send(context.Background(), cb))

	require.Len(t, ps.notifications, 1)
	assert.Equal(t, "RateNotFound", ps.notifications[0].Reason)
	assert.Equal(t, "no rate", ps.notifications[0].Message)
	assert.Nil(t, ps.notifications[0].Result)
}

func TestCallbackServiceRefreshResult(t *testing.T) {
	ps := &fakePubSub{}
	svc := NewCallbackService(nil, "", ps, logger.NewNopLogger())

	cb := successCallback()
	cb.ActionType = model.ActionShippingRateRefresh
	cb.Result = nil
	cb.Refresh = &model.RefreshResult{Countries: 4, Tabs: 3}
	require.NoError(t, svc.Send(context.Background(), cb))

	require.Len(t, ps.notifications, 1)
	assert.JSONEq(t, `{"countries":4,"tabs":3}`, string(ps.notifications[0].Result))
}

func TestCallbackServiceErrors(t *testing.T) {
	// 队列投递失败返回错误
	svc := NewCallbackService(&fakeQueue{err: errors.New("lmstfy down")}, "callbacks", &fakePubSub{}, logger.NewNopLogger())
	assert.Error(t, svc.Send(context.Background(), successCallback()))

	// 频道发布失败只记录日志
	q := &fakeQueue{}
	svc = NewCallbackService(q, "callbacks", &fakePubSub{err: errors.New("redis down")}, logger.NewNopLogger())
	assert.NoError(t, svc.Send(context.Background(), successCallback()))
	assert.Len(t, q.jobs, 1)
}
