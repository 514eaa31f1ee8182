package response

import (
	"time"

	"oip/dprate/internal/framework"
	"oip/dprate/pkg/errorutil"
	"oip/dprate/pkg/model"
)

// NewCallback 根据处理结果构造回调消息
func NewCallback(meta *framework.JobMeta, err error) *model.ShippingRateCallback {
	cb := &model.ShippingRateCallback{
		Status:      model.CallbackStatusSuccess,
		ProcessedAt: time.Now().Unix(),
	}
	if meta != nil {
		cb.RequestID = meta.RequestID
		cb.ID = meta.ID
		cb.ActionType = meta.ActionType
	}
	if err != nil {
		cb.Status = model.CallbackStatusFailed
		cb.Error = NewCallbackError(err)
	}
	return cb
}

// NewCallbackError 错误 → 回调错误结构
func NewCallbackError(err error) *model.CallbackError {
	e := errorutil.Wrap(err)
	if e == nil {
		return nil
	}
	return &model.CallbackError{
		Reason:  string(e.Reason),
		Message: e.Message,
		Details: e.Details,
	}
}
