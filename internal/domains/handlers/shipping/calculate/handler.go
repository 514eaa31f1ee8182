package calculate

import (
	"context"
	"time"

	"oip/dprate/internal/business/shipping"
	"oip/dprate/internal/domains/common/response"
	"oip/dprate/pkg/errorutil"
)

// PreProcess 解析并校验请求
func (h *CalculateHandler) PreProcess(ctx context.Context) error {
	var payload CalculatePayload
	if err := h.DecodeBizPayload(&payload); err != nil {
		return err
	}
	h.payload = &payload

	weight, missing, err := shipping.ParseWeightInput(payload.Weight)
	if err != nil {
		return err
	}

	h.request = &shipping.CalculateRequest{
		Country:       payload.Country,
		ShippingLine:  payload.ShippingLine,
		Zone:          payload.Zone,
		Weight:        weight,
		WeightUnit:    shipping.WeightUnit(payload.WeightUnit),
		WeightMissing: missing,
	}
	return h.request.Validate()
}

// Process 计算运费
func (h *CalculateHandler) Process(ctx context.Context) error {
	result, err := h.deps.Rates.Calculate(ctx, h.request)
	if err != nil {
		return err
	}
	h.result = result
	return nil
}

// PostProcess 格式化输出并回调
func (h *CalculateHandler) PostProcess(ctx context.Context) error {
	if err := h.GetResulter().Set(ctx, &CalculateOutput{
		ID:          h.GetMeta().ID,
		Quote:       response.NewShippingQuote(h.result),
		ProcessedAt: time.Now().Unix(),
	}); err != nil {
		return err
	}

	output := h.GetResulter().Get(ctx)
	h.SetOutput(output)

	callback := response.NewCallback(h.GetMeta(), nil)
	callback.Result = response.NewShippingQuote(h.result)
	if err := h.deps.Callback.Send(ctx, callback); err != nil {
		return errorutil.RetriableWithDetails("send callback failed", err.Error())
	}
	return nil
}

// fail 不可重试错误回调 FAILED
func (h *CalculateHandler) fail(ctx context.Context, err error) ([]byte, error) {
	if !errorutil.IsRetryable(err) {
		if cbErr := h.deps.Callback.Send(ctx, response.NewCallback(h.GetMeta(), err)); cbErr != nil {
			h.deps.Logger.Errorf(ctx, "[CalculateHandler] send failed callback error: %v", cbErr)
			return h.WrapErrorResponse(ctx, errorutil.RetriableWithDetails("send callback failed", cbErr.Error()))
		}
	}
	return h.WrapErrorResponse(ctx, err)
}
