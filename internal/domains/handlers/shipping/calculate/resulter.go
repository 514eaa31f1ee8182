package calculate

import (
	"context"
	"fmt"
)

// CalculateResulter 计算结果处理器
type CalculateResulter struct {
	dstData *CalculateOutput
}

// NewCalculateResulter 创建计算结果处理器
func NewCalculateResulter() *CalculateResulter {
	return &CalculateResulter{}
}

// Set 设置业务结果数据
func (r *CalculateResulter) Set(ctx context.Context, data interface{}) error {
	out, ok := data.(*CalculateOutput)
	if !ok {
		return fmt.Errorf("unexpected result type %T", data)
	}
	r.dstData = out
	return nil
}

// Get 获取格式化后的输出
func (r *CalculateResulter) Get(ctx context.Context) interface{} {
	return r.dstData
}
