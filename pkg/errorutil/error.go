package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason 错误分类
type Reason string

const (
	// 用户输入错误：立即返回，不重试
	ReasonMissingField  Reason = "MissingField"
	ReasonInvalidWeight Reason = "InvalidWeight"

	// 数据错误：附带上下文便于调用方自行修正
	ReasonRateNotFound       Reason = "RateNotFound"
	ReasonWeightExceedsLimit Reason = "WeightExceedsLimit"
	ReasonNoBandMatch        Reason = "NoBandMatch"

	// 上游不可用：与"无数据"严格区分
	ReasonServiceNotConfigured Reason = "ServiceNotConfigured"

	ReasonInternal Reason = "Internal"
)

// Error 错误结构（包含可重试标记）
type Error struct {
	Code       int                    `json:"code"`
	Reason     Reason                 `json:"reason"`
	Message    string                 `json:"message"`
	Retryable  bool                   `json:"retryable"`
	Details    map[string]interface{} `json:"details,omitempty"`
	DevDetails string                 `json:"dev_details,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// WithDetail 附加上下文字段
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Retriable 创建可重试错误（网络错误、临时故障等）
func Retriable(message string) *Error {
	return &Error{
		Code:      http.StatusInternalServerError,
		Reason:    ReasonInternal,
		Message:   message,
		Retryable: true,
	}
}

// RetriableWithDetails 创建可重试错误（带详细信息）
func RetriableWithDetails(message string, details string) *Error {
	e := Retriable(message)
	e.DevDetails = details
	return e
}

// NonRetriable 创建不可重试错误（参数错误、业务规则错误等）
func NonRetriable(message string) *Error {
	return &Error{
		Code:      http.StatusBadRequest,
		Reason:    ReasonInternal,
		Message:   message,
		Retryable: false,
	}
}

// MissingField 必填字段缺失
func MissingField(field string) *Error {
	e := &Error{
		Code:    http.StatusBadRequest,
		Reason:  ReasonMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
	return e.WithDetail("field", field)
}

// InvalidWeight 重量非法
func InvalidWeight(format string, args ...interface{}) *Error {
	return &Error{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvalidWeight,
		Message: fmt.Sprintf(format, args...),
	}
}

// ServiceNotConfigured 表格数据源未配置或不可达
func ServiceNotConfigured(message string, cause error) *Error {
	e := &Error{
		Code:      http.StatusServiceUnavailable,
		Reason:    ReasonServiceNotConfigured,
		Message:   message,
		Retryable: true,
	}
	if cause != nil {
		e.DevDetails = cause.Error()
	}
	return e
}

// RateNotFound 无匹配费率，列出可用线路
func RateNotFound(message string, available []string) *Error {
	e := &Error{
		Code:    http.StatusNotFound,
		Reason:  ReasonRateNotFound,
		Message: message,
	}
	if available == nil {
		available = []string{}
	}
	return e.WithDetail("available_shipping_lines", available)
}

// WeightExceedsLimit 超过线路最大重量
func WeightExceedsLimit(maxWeight float64, unit string) *Error {
	e := &Error{
		Code:    http.StatusUnprocessableEntity,
		Reason:  ReasonWeightExceedsLimit,
		Message: fmt.Sprintf("weight exceeds maximum weight of %g %s for this shipping line", maxWeight, unit),
	}
	return e.WithDetail("max_weight", maxWeight).WithDetail("unit", unit)
}

// NoBandMatch 无任何可用重量区间
func NoBandMatch(message string) *Error {
	return &Error{
		Code:    http.StatusNotFound,
		Reason:  ReasonNoBandMatch,
		Message: message,
	}
}

// Wrap 包装错误（自动判断是否可重试）
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	// 如果已经是 Error 类型，直接返回
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	// 默认为不可重试错误
	return &Error{
		Code:       http.StatusInternalServerError,
		Reason:     ReasonInternal,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// UnWrapResponse 解包错误（用于 Response）
func UnWrapResponse(err error) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err)
}

// ReasonOf 获取错误分类，非 *Error 返回 Internal
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonInternal
}

// IsReason 判断错误分类
func IsReason(err error, reason Reason) bool {
	return err != nil && ReasonOf(err) == reason
}

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
