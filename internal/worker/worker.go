package worker

import (
	"context"

	"oip/dprate/internal/framework"
	"oip/dprate/pkg/lmstfyx"
	"oip/dprate/pkg/logger"
)

// Worker 接口
type Worker interface {
	Start()
	Shutdown()
	GetName() string
}

// WorkerInstance Worker 实例：一个队列对应一组 Subscriber + Processor
type WorkerInstance struct {
	ctx        context.Context
	name       string
	subscriber *framework.Subscriber
	processor  *framework.Processor
	inputChan  chan *framework.Message
	shutdownCh chan struct{}
	logger     logger.Logger
}

// NewWorkerInstance 创建 Worker 实例
func NewWorkerInstance(
	ctx context.Context,
	name string,
	subscriberCfg framework.SubscriberConfig,
	processorCfg framework.ProcessorConfig,
	source framework.MessageSource,
	proc lmstfyx.Proc,
	log logger.Logger,
) Worker {
	subCfg := subscriberCfg.WithDefaults()
	procCfg := processorCfg.WithDefaults()

	inputChan := make(chan *framework.Message, procCfg.BufferSize)

	return &WorkerInstance{
		ctx:        ctx,
		name:       name,
		subscriber: framework.NewSubscriber(&subCfg, source, log),
		processor:  framework.NewProcessor(&procCfg, proc, source, log),
		inputChan:  inputChan,
		shutdownCh: make(chan struct{}),
		logger:     log,
	}
}

// Start 启动 Worker，阻塞直到 Shutdown
func (w *WorkerInstance) Start() {
	w.logger.Infof(w.ctx, "[Worker] %s started", w.name)

	w.processor.Start(w.ctx, w.inputChan)
	w.subscriber.Start(w.ctx, w.inputChan)

	<-w.shutdownCh
}

// Shutdown 优雅退出：停止拉取 → 等待拉取协程 → Drain → 等待处理协程
func (w *WorkerInstance) Shutdown() {
	w.logger.Infof(w.ctx, "[Worker] %s began to close", w.name)

	w.subscriber.Stop()
	w.subscriber.Wait()

	w.processor.SignalShutdown()
	w.processor.Wait()

	close(w.shutdownCh)
	w.logger.Infof(w.ctx, "[Worker] %s shutdown complete", w.name)
}

// GetName 获取 Worker 名称
func (w *WorkerInstance) GetName() string {
	return w.name
}
