package shipping

import (
	"github.com/gin-gonic/gin"

	"oip/dprate/internal/app/domains/apimodel/request"
	"oip/dprate/internal/app/domains/apimodel/response"
	"oip/dprate/internal/app/pkg/ginx"
)

// Calculate godoc
// @Summary      计算运费
// @Description  按国家、线路、分区和重量计算运费，总价包含固定履约费
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        body body request.CalculateRequest true "计算参数"
// @Success      200 {object} ginx.Response{data=response.CalculationResponse} "计算成功"
// @Failure      400 {object} ginx.Response "参数错误（MissingField / InvalidWeight）"
// @Failure      404 {object} ginx.Response "无匹配费率（RateNotFound / NoBandMatch）"
// @Failure      422 {object} ginx.Response "超过线路最大重量（WeightExceedsLimit）"
// @Failure      503 {object} ginx.Response "费率表不可用（ServiceNotConfigured）"
// @Router       /shipping/calculate [post]
func (h *RateHandler) Calculate(c *gin.Context) {
	var req request.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	result, err := h.rates.Calculate(c.Request.Context(), domainReq)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromCalculationResult(result))
}
