package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"oip/dprate/internal/bootstrap"
	"oip/dprate/internal/business/notify"
	"oip/dprate/internal/domains"
	"oip/dprate/internal/domains/common/deps"
	"oip/dprate/internal/framework"
	"oip/dprate/pkg/config"
	"oip/dprate/pkg/infra/redis"
	"oip/dprate/pkg/lmstfy"
	"oip/dprate/pkg/logger"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx          context.Context
	cfg          *config.Config
	lmstfyClient *lmstfy.Client
	rates        *bootstrap.RateStack
	workers      []Worker
	closing      *atomic.Bool
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
	logger       logger.Logger
}

// NewManagerInstance 创建 Manager
func NewManagerInstance(cfg *config.Config, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	rates, err := bootstrap.NewRateStack(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate service: %w", err)
	}

	m := &ManagerInstance{
		ctx:          ctx,
		cfg:          cfg,
		lmstfyClient: lmstfyClient,
		rates:        rates,
		closing:      atomic.NewBool(false),
		shutdownCh:   make(chan struct{}),
		logger:       log,
	}
	if err := m.loadWorkers(); err != nil {
		rates.Close()
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}
	return m, nil
}

// Start 启动 Manager，阻塞直到 Shutdown
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting %d workers...", len(m.workers))

	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	<-m.shutdownCh
	return nil
}

// Shutdown 优雅退出，可重复调用
func (m *ManagerInstance) Shutdown() {
	if !m.closing.CAS(false, true) {
		return
	}
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	for _, worker := range m.workers {
		m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
		worker.Shutdown()
	}
	m.wg.Wait()

	m.rates.Close()
	close(m.shutdownCh)

	m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
}

// loadWorkers 每个 worker 配置一个 Worker，回调队列按 worker 配置
func (m *ManagerInstance) loadWorkers() error {
	var pubsub notify.ResultPublisher
	if m.rates.Redis != nil {
		pubsub = redis.NewPubSub(m.rates.Redis, m.cfg.Notify.ChannelPrefix)
	}

	for _, workerCfg := range m.cfg.Workers {
		if workerCfg.CallbackQueue == "" {
			m.logger.Warnf(m.ctx, "[Manager] Worker %s has no callback_queue, results are published to redis only", workerCfg.Name)
		}

		subCfg := framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		procCfg := framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		d := &deps.Deps{
			Rates:    m.rates.Service,
			Callback: notify.NewCallbackService(m.lmstfyClient, workerCfg.CallbackQueue, pubsub, m.logger),
			Logger:   m.logger,
		}

		m.workers = append(m.workers, NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient,
			domains.GetProcess(d),
			m.logger,
		))
	}

	return nil
}
