package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookProvider 以 xlsx 工作簿作为费率表数据源，每个 sheet 对应一个 tab
// ListTabNames 每次都重新加载工作簿，FetchTabRows 读取最近一次加载的版本
type WorkbookProvider struct {
	source WorkbookSource

	mu   sync.Mutex
	file *excelize.File
}

// NewWorkbookProvider 创建工作簿数据源
func NewWorkbookProvider(source WorkbookSource) *WorkbookProvider {
	return &WorkbookProvider{source: source}
}

// Source 来源描述
func (p *WorkbookProvider) Source() string {
	return p.source.Name()
}

// ListTabNames 重新加载工作簿并返回所有 sheet 名（按工作簿顺序）
func (p *WorkbookProvider) ListTabNames(ctx context.Context) ([]string, error) {
	if err := p.reload(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file.GetSheetList(), nil
}

// FetchTabRows 读取 sheet 的全部行，空单元格为 nil
func (p *WorkbookProvider) FetchTabRows(ctx context.Context, tabName string) ([][]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.file == nil {
		p.mu.Unlock()
		if err := p.reload(ctx); err != nil {
			return nil, err
		}
		p.mu.Lock()
	}
	rows, err := p.file.GetRows(tabName, excelize.Options{RawCellValue: true})
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q from %s: %w", tabName, p.source.Name(), err)
	}

	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			if strings.TrimSpace(v) != "" {
				cells[j] = v
			}
		}
		out[i] = cells
	}
	return out, nil
}

// Close 释放工作簿
func (p *WorkbookProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

func (p *WorkbookProvider) reload(ctx context.Context) error {
	r, err := p.source.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("parse workbook %s: %w", p.source.Name(), err)
	}

	p.mu.Lock()
	old := p.file
	p.file = f
	p.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}
