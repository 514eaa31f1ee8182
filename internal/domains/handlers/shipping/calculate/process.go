package calculate

import (
	"context"

	"oip/dprate/internal/business/shipping"
	"oip/dprate/internal/domains/common/deps"
	"oip/dprate/internal/framework"
)

// CalculateHandler 运费计算处理器
type CalculateHandler struct {
	framework.BaseHandler

	deps    *deps.Deps
	payload *CalculatePayload
	request *shipping.CalculateRequest
	result  *shipping.CalculationResult
}

// NewCalculateHandler 创建运费计算处理器
func NewCalculateHandler(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	d *deps.Deps,
) (framework.BusinessHandler, error) {
	handler := &CalculateHandler{
		BaseHandler: *baseHandler,
		deps:        d,
	}

	handler.SetResulter(NewCalculateResulter())

	return handler, nil
}

// Handle 处理入口
// 不可重试的失败同样回调 FAILED，可重试的失败交给队列重投
func (h *CalculateHandler) Handle(ctx context.Context) ([]byte, error) {
	processFuncs := []framework.ProcessorFunc{
		h.PreProcess,
		h.Process,
		h.PostProcess,
	}

	preProcessor := framework.NewPreProcessor(processFuncs)
	if err := preProcessor.Run(ctx); err != nil {
		return h.fail(ctx, err)
	}

	output := h.GetOutput()
	return h.WrapResponse(ctx, output)
}
