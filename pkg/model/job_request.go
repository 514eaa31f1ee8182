package model

// 任务类型
const (
	ActionShippingRateCalculate = "shipping_rate_calculate"
	ActionShippingRateRefresh   = "shipping_rate_refresh"
)

// ShippingRateJob 运费任务消息（标准化）
// 用于调用方 → worker 的消息传递
type ShippingRateJob struct {
	Payload ShippingRateJobPayload `json:"payload"`
}

// ShippingRateJobPayload Job 负载
type ShippingRateJobPayload struct {
	Data ShippingRateJobData `json:"data"`
}

// ShippingRateJobData Job 数据层
type ShippingRateJobData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID
	ActionType string `json:"action_type"` // shipping_rate_calculate / shipping_rate_refresh
	ID         string `json:"id"`          // 业务 ID，回调时原样返回

	// 业务数据（refresh 任务为空）
	Data *ShippingRateQuery `json:"data,omitempty"`
}

// ShippingRateQuery 运费计算参数
// Weight 允许数字或数字字符串
type ShippingRateQuery struct {
	Country      string      `json:"country"`
	ShippingLine string      `json:"shipping_line"`
	Zone         string      `json:"zone,omitempty"`
	Weight       interface{} `json:"weight"`
	WeightUnit   string      `json:"weight_unit,omitempty"`
}
