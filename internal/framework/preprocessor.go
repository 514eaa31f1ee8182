package framework

import (
	"context"
	"errors"
	"fmt"

	"oip/dprate/pkg/errorutil"
)

// PreProcessor 函数链处理器
type PreProcessor struct {
	processFuncs []ProcessorFunc
}

// NewPreProcessor 创建函数链处理器
func NewPreProcessor(processFuncs []ProcessorFunc) *PreProcessor {
	return &PreProcessor{
		processFuncs: processFuncs,
	}
}

// Run 执行函数链
// 任一函数返回 error 则立即停止；*errorutil.Error 原样返回，保留分类和可重试标记
func (p *PreProcessor) Run(ctx context.Context) error {
	for i, processFunc := range p.processFuncs {
		if err := ctx.Err(); err != nil {
			return errorutil.Retriable(fmt.Sprintf("processor[%d] cancelled: %v", i, err))
		}
		if err := processFunc(ctx); err != nil {
			var e *errorutil.Error
			if errors.As(err, &e) {
				return err
			}
			return fmt.Errorf("processor[%d] failed: %w", i, err)
		}
	}
	return nil
}
