package domains

import (
	"context"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"

	"oip/dprate/internal/domains/common/deps"
	"oip/dprate/internal/framework"
	"oip/dprate/pkg/errorutil"
	"oip/dprate/pkg/lmstfyx"
	"oip/dprate/pkg/logger"
)

// GetProcess 返回核心处理函数（注入到 Processor）
// 成功或不可重试失败 → Success（ACK）；可重试失败 → Release；无法解析或未知 action → Bury
func GetProcess(d *deps.Deps) lmstfyx.Proc {
	log := d.Logger
	return func(ctx context.Context, lmstfyJob *client.Job) (resp *lmstfyx.JobResp) {
		startTime := time.Now()

		// 1. 解析 Job
		base := &framework.BaseHandler{}
		if err := base.ParseJob(ctx, lmstfyJob.Data); err != nil {
			log.Errorf(ctx, "[GetProcess] parseJob failed: %s, err: %v", lmstfyJob.ID, err)
			return lmstfyx.Bury(nil)
		}
		base.SetMessageID(lmstfyJob.ID)
		meta := base.GetMeta()

		// 2. 注入 TraceID 到 Context
		ctx = logger.WithTraceID(ctx, meta.RequestID)
		ctx = logger.WithActionType(ctx, meta.ActionType)

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, id=%s", meta.ActionType, meta.ID)

		// 3. 从 HandlerMap 获取 Handler
		factory, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			return lmstfyx.Bury(nil)
		}

		// 4. 调用 Handler（捕获 panic）
		defer func() {
			if r := recover(); r != nil {
				log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
				resp = lmstfyx.Bury(nil)
			}
		}()

		handler, err := factory(ctx, base, d)
		if err != nil {
			log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
			return lmstfyx.Bury(nil)
		}

		data, err := handler.Handle(ctx)
		resp = jobReport(ctx, data, err, log)

		// 5. 记录处理时长
		log.Infof(ctx, "[GetProcess] Processing complete: action=%s, duration=%v", resp.Action, time.Since(startTime))
		return resp
	}
}

// jobReport 根据 Handler 结果生成 JobResp
func jobReport(ctx context.Context, data []byte, err error, log logger.Logger) *lmstfyx.JobResp {
	if err == nil {
		return lmstfyx.Success(data)
	}
	if errorutil.IsRetryable(err) {
		log.Warnf(ctx, "[GetProcess] retryable failure, release: %v", err)
		return lmstfyx.Release(data)
	}
	log.Infof(ctx, "[GetProcess] job failed: reason=%s, err: %s", errorutil.ReasonOf(err), fmt.Sprint(err))
	return lmstfyx.Success(data)
}
