package response

import "oip/dprate/internal/business/shipping"

// CalculationResponse 运费计算结果（DTO）
type CalculationResponse struct {
	Country        string       `json:"country"`
	Zone           string       `json:"zone,omitempty"`
	ShippingLine   string       `json:"shipping_line"`
	ShippingCost   float64      `json:"shipping_cost"`
	FulfillmentFee float64      `json:"fulfillment_fee"`
	TotalCost      float64      `json:"total_cost"`
	DeliveryDays   string       `json:"delivery_days"`
	WeightUsed     float64      `json:"weight_used"`
	WeightUnit     string       `json:"weight_unit"`
	Breakdown      *Breakdown   `json:"breakdown"`
	MatchedBand    *BandSummary `json:"matched_band,omitempty"`
}

// Breakdown 费用明细（DTO）
type Breakdown struct {
	FreightPerUnit float64 `json:"freight_per_unit"`
	InjectionFee   float64 `json:"injection_fee"`
	WeightKg       float64 `json:"weight_kg"`
	WeightLb       float64 `json:"weight_lb"`
}

// BandSummary 命中的重量区间（DTO）
type BandSummary struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
	Unit string  `json:"unit"`
}

// FromCalculationResult 业务结果 → DTO
func FromCalculationResult(r *shipping.CalculationResult) *CalculationResponse {
	resp := &CalculationResponse{
		Country:        r.Country,
		Zone:           r.Zone,
		ShippingLine:   r.ShippingLine,
		ShippingCost:   r.ShippingCost,
		FulfillmentFee: r.FulfillmentFee,
		TotalCost:      r.TotalCost,
		DeliveryDays:   r.DeliveryDays,
		WeightUsed:     r.WeightUsed,
		WeightUnit:     string(r.WeightUnit),
		Breakdown: &Breakdown{
			FreightPerUnit: r.FreightPerUnit,
			InjectionFee:   r.InjectionFee,
			WeightKg:       r.WeightKg,
			WeightLb:       r.WeightLb,
		},
	}
	if r.MatchedBand != nil {
		resp.MatchedBand = &BandSummary{
			Low:  r.MatchedBand.Low,
			High: r.MatchedBand.High,
			Unit: string(r.MatchedBand.Unit),
		}
	}
	return resp
}
