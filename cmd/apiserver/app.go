package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"oip/dprate/internal/app/domains/modules/mdratejob"
	"oip/dprate/internal/app/server/handlers/shipping"
	"oip/dprate/internal/app/server/routers"
	"oip/dprate/internal/bootstrap"
	"oip/dprate/pkg/config"
	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/lmstfy"
	"oip/dprate/pkg/logger"
)

// App HTTP 应用
type App struct {
	Engine *gin.Engine
	Logger logger.Logger
}

// InitializeApp 组装依赖
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	rates, err := bootstrap.NewRateStack(context.Background(), cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}

	rateHandler := shipping.NewRateHandler(rates.Service, log)
	if cfg.Server.JobQueue != "" {
		jobs, err := newRateJobModule(cfg, rates)
		if err != nil {
			rates.Close()
			_ = log.Sync()
			return nil, nil, err
		}
		rateHandler.EnableJobs(jobs, cfg.Server.MaxJobWait)
		log.Infof(context.Background(), "[App] rate jobs enabled: queue=%s, wait_result=%v",
			cfg.Server.JobQueue, jobs.CanWait())
	}
	engine := routers.SetupRoutes(rateHandler, log)

	cleanup := func() {
		rates.Close()
		_ = log.Sync()
	}
	return &App{Engine: engine, Logger: log}, cleanup, nil
}

// newRateJobModule 任务投递到 lmstfy，配置了 Redis 时可等待 worker 的结果通知
func newRateJobModule(cfg *config.Config, rates *bootstrap.RateStack) (*mdratejob.RateJobModule, error) {
	queue, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, err
	}
	var results mdratejob.ResultChannel
	if rates.Redis != nil {
		results = redis.NewPubSub(rates.Redis, cfg.Notify.ChannelPrefix)
	}
	return mdratejob.NewRateJobModule(queue, results, cfg.Server.JobQueue), nil
}
