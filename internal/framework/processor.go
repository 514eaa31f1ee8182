package framework

import (
	"context"
	"sync"
	"time"

	"github.com/bitleak/lmstfy/client"
	"go.uber.org/atomic"

	"oip/dprate/pkg/lmstfyx"
	"oip/dprate/pkg/logger"
)

// ProcessorStats 处理计数
type ProcessorStats struct {
	Processed int64
	Acked     int64
	Released  int64
	AckFailed int64
}

// Processor 处理器：接收消息，调用业务处理函数，按结果 ACK 或等待重投
type Processor struct {
	cfg        *ProcessorConfig
	proc       lmstfyx.Proc // 业务处理函数（注入的 GetProcess）
	acker      MessageSource
	logger     Logger
	shutdownCh chan struct{} // 专门的退出信号通道
	wg         sync.WaitGroup

	processed *atomic.Int64
	acked     *atomic.Int64
	released  *atomic.Int64
	ackFailed *atomic.Int64
}

// NewProcessor 创建处理器
func NewProcessor(cfg *ProcessorConfig, proc lmstfyx.Proc, acker MessageSource, logger Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		proc:       proc,
		acker:      acker,
		logger:     logger,
		shutdownCh: make(chan struct{}),
		processed:  atomic.NewInt64(0),
		acked:      atomic.NewInt64(0),
		released:   atomic.NewInt64(0),
		ackFailed:  atomic.NewInt64(0),
	}
}

// Start 启动处理协程
func (p *Processor) Start(ctx context.Context, inputChan <-chan *Message) {
	p.logger.Infof(ctx, "[Processor] Starting with %d workers", p.cfg.Concurrency)

	for i := 0; i < p.cfg.Concurrency; i++ {
		workerID := i
		p.wg.Add(1)
		go p.loop(ctx, workerID, inputChan)
	}
}

// SignalShutdown 通知 Processor 准备退出（进入 Drain 模式）
func (p *Processor) SignalShutdown() {
	p.logger.Infof(context.Background(), "[Processor] Shutdown signal received")
	close(p.shutdownCh)
}

// Wait 等待所有处理协程退出
func (p *Processor) Wait() {
	p.wg.Wait()
	s := p.Stats()
	p.logger.Infof(context.Background(), "[Processor] All workers exited: processed=%d, acked=%d, released=%d, ack_failed=%d",
		s.Processed, s.Acked, s.Released, s.AckFailed)
}

// Stats 当前计数
func (p *Processor) Stats() ProcessorStats {
	return ProcessorStats{
		Processed: p.processed.Load(),
		Acked:     p.acked.Load(),
		Released:  p.released.Load(),
		AckFailed: p.ackFailed.Load(),
	}
}

// loop 处理循环（单个 Worker）
func (p *Processor) loop(ctx context.Context, workerID int, inputChan <-chan *Message) {
	defer p.wg.Done()
	ctx = logger.WithWorkerID(ctx, workerID)
	p.logger.Infof(ctx, "[Processor-%d] Started", workerID)

	for {
		select {
		// A. 正常业务处理
		case msg := <-inputChan:
			p.process(ctx, msg, workerID)

		// B. Drain 模式：处理完剩余消息再退出
		case <-p.shutdownCh:
			p.logger.Infof(ctx, "[Processor-%d] Entering DRAIN mode", workerID)
			count := 0
			for {
				select {
				case msg := <-inputChan:
					p.process(ctx, msg, workerID)
					count++
				default:
					p.logger.Infof(ctx, "[Processor-%d] Drained %d messages, exiting", workerID, count)
					return
				}
			}
		}
	}
}

// process 处理单个消息
func (p *Processor) process(ctx context.Context, msg *Message, workerID int) {
	if msg == nil {
		return
	}

	startTime := time.Now()

	// 1. 创建超时控制的 Context
	procCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		procCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	p.logger.Debugf(procCtx, "[Processor-%d] Processing message: %s", workerID, msg.ID)

	// 2. 调用业务处理函数（注入的 GetProcess）
	job := &client.Job{
		ID:    msg.ID,
		Queue: msg.Queue,
		Data:  msg.Data,
	}
	resp := p.proc(procCtx, job)
	if resp == nil {
		resp = lmstfyx.Bury(nil)
	}
	p.processed.Inc()

	// 3. 根据结果 ACK；Release 不 ACK，TTR 到期后重新投递
	if resp.Action.ShouldAck() {
		if err := p.acker.Ack(msg.Queue, msg.ID); err != nil {
			p.ackFailed.Inc()
			p.logger.Errorf(procCtx, "[Processor-%d] Ack failed: %s, err: %v", workerID, msg.ID, err)
		} else {
			p.acked.Inc()
		}
	} else {
		p.released.Inc()
	}

	p.logger.Infof(procCtx, "[Processor-%d] Message processed: %s, action: %s, duration: %v",
		workerID, msg.ID, resp.Action, time.Since(startTime))
}
