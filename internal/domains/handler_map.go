package domains

import (
	"context"

	"oip/dprate/internal/domains/common/deps"
	"oip/dprate/internal/domains/handlers/shipping/calculate"
	"oip/dprate/internal/domains/handlers/shipping/refresh"
	"oip/dprate/internal/framework"
	"oip/dprate/pkg/model"
)

// HandlerFactory Handler 构造函数类型
type HandlerFactory func(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	d *deps.Deps,
) (framework.BusinessHandler, error)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]HandlerFactory{
	model.ActionShippingRateCalculate: calculate.NewCalculateHandler,
	model.ActionShippingRateRefresh:   refresh.NewRefreshHandler,
}
