package deps

import (
	"context"

	"oip/dprate/internal/business/shipping"
	"oip/dprate/pkg/logger"
	"oip/dprate/pkg/model"
)

// RateService 费率服务
type RateService interface {
	Calculate(ctx context.Context, req *shipping.CalculateRequest) (*shipping.CalculationResult, error)
	Refresh(ctx context.Context) (*shipping.Aggregate, error)
}

// Callbacker 结果回调
type Callbacker interface {
	Send(ctx context.Context, callback *model.ShippingRateCallback) error
}

// Deps Handler 依赖
type Deps struct {
	Rates    RateService
	Callback Callbacker
	Logger   logger.Logger
}
