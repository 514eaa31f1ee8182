package model

// ShippingRateCallback 运费任务回调消息（标准化）
// 用于 worker → callback 队列 / Redis 频道
type ShippingRateCallback struct {
	RequestID   string         `json:"request_id"`       // 对应请求的 request_id（链路追踪）
	ID          string         `json:"id"`               // 业务 ID
	ActionType  string         `json:"action_type"`      // 任务类型
	Status      string         `json:"status"`           // 回调状态: SUCCESS / FAILED
	Result      *ShippingQuote `json:"result,omitempty"` // 计算结果（成功时返回）
	Refresh     *RefreshResult `json:"refresh,omitempty"`
	Error       *CallbackError `json:"error,omitempty"` // 错误信息（失败时返回）
	ProcessedAt int64          `json:"processed_at"`    // 处理时间戳（Unix timestamp）
}

// CallbackError 失败原因
type CallbackError struct {
	Reason  string                 `json:"reason"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS"
	CallbackStatusFailed  = "FAILED"
)
