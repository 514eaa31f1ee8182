package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"oip/dprate/pkg/errorutil"
)

// Response 统一响应结构
type Response struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

// Meta 元数据
type Meta struct {
	Code      int                    `json:"code" example:"200"`
	Message   string                 `json:"message" example:"OK"`
	Reason    string                 `json:"reason,omitempty" example:"RateNotFound"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   []ErrorDetail          `json:"details,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string `json:"path" example:"country"`
	Info string `json:"info" example:"country is required"`
}

// RequestIDKey gin.Context 中 request id 的 key
const RequestIDKey = "request_id"

func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Meta: Meta{
			Code:      200,
			Message:   "OK",
			RequestID: requestID(c),
		},
		Data: data,
	})
}

// Accepted 已受理（202），用于异步任务
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, Response{
		Meta: Meta{
			Code:      http.StatusAccepted,
			Message:   "Accepted",
			RequestID: requestID(c),
		},
		Data: data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:      httpCode,
			Message:   message,
			RequestID: requestID(c),
		},
	})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpCode int, message string, details []ErrorDetail) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:      httpCode,
			Message:   message,
			RequestID: requestID(c),
			Details:   details,
		},
	})
}

// FromError 业务错误响应：按 errorutil.Error 的 Code/Reason/Details 输出
func FromError(c *gin.Context, err error) {
	e := errorutil.Wrap(err)
	code := e.Code
	if code == 0 {
		code = http.StatusInternalServerError
	}
	message := e.Message
	if e.Reason == errorutil.ReasonInternal && code >= http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(code, Response{
		Meta: Meta{
			Code:      code,
			Message:   message,
			Reason:    string(e.Reason),
			RequestID: requestID(c),
			Context:   e.Details,
		},
	})
}

// BadRequest 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// BadRequestWithValidation 400 错误（带验证详情）
func BadRequestWithValidation(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, ErrorDetail{
				Path: fieldErr.Field(),
				Info: getValidationErrorMessage(fieldErr),
			})
		}
		ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", details)
		return
	}

	BadRequest(c, err.Error())
}

// InternalError 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// getValidationErrorMessage 根据验证错误类型返回友好的错误消息
func getValidationErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	case "oneof":
		return fieldErr.Field() + " must be one of " + fieldErr.Param()
	default:
		return fieldErr.Field() + " is invalid"
	}
}
