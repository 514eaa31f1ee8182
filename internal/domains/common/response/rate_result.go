package response

import (
	"oip/dprate/internal/business/shipping"
	"oip/dprate/pkg/model"
)

// NewShippingQuote 计算结果 → 回调结构
func NewShippingQuote(r *shipping.CalculationResult) *model.ShippingQuote {
	if r == nil {
		return nil
	}
	return &model.ShippingQuote{
		Country:        r.Country,
		Zone:           r.Zone,
		ShippingLine:   r.ShippingLine,
		ShippingCost:   r.ShippingCost,
		FulfillmentFee: r.FulfillmentFee,
		TotalCost:      r.TotalCost,
		DeliveryDays:   r.DeliveryDays,
		WeightUsed:     r.WeightUsed,
		WeightUnit:     string(r.WeightUnit),
	}
}

// NewRefreshResult 刷新结果 → 回调结构
func NewRefreshResult(agg *shipping.Aggregate) *model.RefreshResult {
	if agg == nil {
		return nil
	}
	return &model.RefreshResult{
		Countries: len(agg.Countries),
		Tabs:      agg.TabCount,
	}
}
