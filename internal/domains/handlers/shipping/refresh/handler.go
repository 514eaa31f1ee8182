package refresh

import (
	"context"

	"oip/dprate/internal/business/shipping"
	"oip/dprate/internal/domains/common/deps"
	"oip/dprate/internal/domains/common/response"
	"oip/dprate/internal/framework"
	"oip/dprate/pkg/errorutil"
)

// RefreshHandler 缓存预热处理器
type RefreshHandler struct {
	framework.BaseHandler

	deps *deps.Deps
	agg  *shipping.Aggregate
}

// NewRefreshHandler 创建缓存预热处理器
func NewRefreshHandler(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	d *deps.Deps,
) (framework.BusinessHandler, error) {
	return &RefreshHandler{
		BaseHandler: *baseHandler,
		deps:        d,
	}, nil
}

// Handle 处理入口
func (h *RefreshHandler) Handle(ctx context.Context) ([]byte, error) {
	preProcessor := framework.NewPreProcessor([]framework.ProcessorFunc{
		h.Process,
		h.PostProcess,
	})
	if err := preProcessor.Run(ctx); err != nil {
		return h.WrapErrorResponse(ctx, err)
	}
	return h.WrapResponse(ctx, h.GetOutput())
}

// Process 清缓存并重建
func (h *RefreshHandler) Process(ctx context.Context) error {
	agg, err := h.deps.Rates.Refresh(ctx)
	if err != nil {
		return err
	}
	h.agg = agg
	return nil
}

// PostProcess 回调刷新结果
func (h *RefreshHandler) PostProcess(ctx context.Context) error {
	result := response.NewRefreshResult(h.agg)
	h.SetOutput(result)

	callback := response.NewCallback(h.GetMeta(), nil)
	callback.Refresh = result
	if err := h.deps.Callback.Send(ctx, callback); err != nil {
		// 缓存已刷新，回调失败不重投
		h.deps.Logger.Warnf(ctx, "[RefreshHandler] send callback failed: %v", err)
		return errorutil.NonRetriable("send callback failed: " + err.Error())
	}
	return nil
}
