package shipping

import (
	"time"

	"github.com/gin-gonic/gin"

	"oip/dprate/internal/app/domains/apimodel/request"
	"oip/dprate/internal/app/domains/apimodel/response"
	"oip/dprate/internal/app/domains/modules/mdratejob"
	"oip/dprate/internal/app/pkg/ginx"
	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/model"
)

// SubmitCalculateJob godoc
// @Summary      投递运费计算任务
// @Description  参数校验通过后投递到 worker 队列；wait 指定时在结果频道上等待，超时返回 202
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        wait query string false "等待结果的时长，如 3s"
// @Param        body body request.CalculateRequest true "计算参数"
// @Success      200 {object} ginx.Response{data=response.JobResponse} "已返回结果"
// @Success      202 {object} ginx.Response{data=response.JobResponse} "已投递"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      503 {object} ginx.Response "任务队列不可用"
// @Router       /shipping/jobs [post]
func (h *RateHandler) SubmitCalculateJob(c *gin.Context) {
	wait, ok := h.parseWait(c)
	if !ok {
		return
	}

	var req request.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	// 入队前校验，避免无效任务进入队列
	domainReq, err := req.ToDomain()
	if err != nil {
		ginx.FromError(c, err)
		return
	}
	if err := domainReq.Validate(); err != nil {
		ginx.FromError(c, err)
		return
	}

	query := &model.ShippingRateQuery{
		Country:      domainReq.Country,
		ShippingLine: domainReq.ShippingLine,
		Zone:         domainReq.Zone,
		Weight:       domainReq.Weight,
		WeightUnit:   string(domainReq.WeightUnit),
	}
	sub, result, err := h.jobs.SubmitCalculate(c.Request.Context(), query, wait)
	h.respondJob(c, sub, result, err)
}

// SubmitRefreshJob godoc
// @Summary      投递缓存刷新任务
// @Tags         shipping
// @Produce      json
// @Param        wait query string false "等待结果的时长，如 3s"
// @Success      200 {object} ginx.Response{data=response.JobResponse} "已返回结果"
// @Success      202 {object} ginx.Response{data=response.JobResponse} "已投递"
// @Failure      503 {object} ginx.Response "任务队列不可用"
// @Router       /shipping/jobs/refresh [post]
func (h *RateHandler) SubmitRefreshJob(c *gin.Context) {
	wait, ok := h.parseWait(c)
	if !ok {
		return
	}
	sub, result, err := h.jobs.SubmitRefresh(c.Request.Context(), wait)
	h.respondJob(c, sub, result, err)
}

// parseWait 解析 wait 参数并限制在 maxJobWait 以内
func (h *RateHandler) parseWait(c *gin.Context) (time.Duration, bool) {
	raw := c.Query("wait")
	if raw == "" || !h.jobs.CanWait() {
		return 0, true
	}
	wait, err := time.ParseDuration(raw)
	if err != nil || wait < 0 {
		ginx.BadRequest(c, "wait must be a non-negative duration such as 3s")
		return 0, false
	}
	if h.maxJobWait > 0 && wait > h.maxJobWait {
		wait = h.maxJobWait
	}
	return wait, true
}

func (h *RateHandler) respondJob(c *gin.Context, sub *mdratejob.Submission, result *redis.RateResultNotification, err error) {
	if err != nil {
		h.logger.Warnf(c.Request.Context(), "[RateHandler] submit job failed: %v", err)
		if sub == nil {
			ginx.FromError(c, err)
			return
		}
		// 已投递但等待失败，按未完成处理
		result = nil
	}

	resp := response.FromSubmission(sub, result)
	if result == nil {
		ginx.Accepted(c, resp)
		return
	}
	ginx.Success(c, resp)
}
