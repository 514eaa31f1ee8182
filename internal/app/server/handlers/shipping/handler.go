package shipping

import (
	"context"
	"time"

	"oip/dprate/internal/app/domains/modules/mdratejob"
	"oip/dprate/internal/business/shipping"
	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/logger"
	"oip/dprate/pkg/model"
)

// RateService 费率服务
type RateService interface {
	Calculate(ctx context.Context, req *shipping.CalculateRequest) (*shipping.CalculationResult, error)
	ListCountries(ctx context.Context) (*shipping.CountryListing, error)
	Refresh(ctx context.Context) (*shipping.Aggregate, error)
	ClearCache(ctx context.Context) error
}

// JobSubmitter 异步任务投递
type JobSubmitter interface {
	CanWait() bool
	SubmitCalculate(ctx context.Context, query *model.ShippingRateQuery, wait time.Duration) (*mdratejob.Submission, *redis.RateResultNotification, error)
	SubmitRefresh(ctx context.Context, wait time.Duration) (*mdratejob.Submission, *redis.RateResultNotification, error)
}

// RateHandler 运费 HTTP 处理器
type RateHandler struct {
	rates      RateService
	jobs       JobSubmitter
	maxJobWait time.Duration
	logger     logger.Logger
}

// NewRateHandler 创建运费处理器实例
func NewRateHandler(rates RateService, log logger.Logger) *RateHandler {
	return &RateHandler{
		rates:  rates,
		logger: log,
	}
}

// EnableJobs 开启异步任务接口，maxWait 为同步等待结果的上限
func (h *RateHandler) EnableJobs(jobs JobSubmitter, maxWait time.Duration) *RateHandler {
	h.jobs = jobs
	h.maxJobWait = maxWait
	return h
}

// JobsEnabled 是否开启异步任务接口
func (h *RateHandler) JobsEnabled() bool {
	return h.jobs != nil
}
