package calculate

import "oip/dprate/pkg/model"

// CalculatePayload Job 消息中的业务数据
type CalculatePayload = model.ShippingRateQuery

// CalculateOutput 最终输出结构
type CalculateOutput struct {
	ID          string               `json:"id"`
	Quote       *model.ShippingQuote `json:"quote"`
	ProcessedAt int64                `json:"processed_at"`
}
