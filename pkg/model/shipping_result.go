package model

// ShippingQuote 运费计算结果
type ShippingQuote struct {
	Country        string  `json:"country"`
	Zone           string  `json:"zone,omitempty"`
	ShippingLine   string  `json:"shipping_line"`
	ShippingCost   float64 `json:"shipping_cost"`
	FulfillmentFee float64 `json:"fulfillment_fee"`
	TotalCost      float64 `json:"total_cost"`
	DeliveryDays   string  `json:"delivery_days"`
	WeightUsed     float64 `json:"weight_used"`
	WeightUnit     string  `json:"weight_unit"`
}

// RefreshResult 缓存刷新结果
type RefreshResult struct {
	Countries int `json:"countries"`
	Tabs      int `json:"tabs"`
}
