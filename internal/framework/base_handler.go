package framework

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"oip/dprate/pkg/errorutil"
)

// BaseHandler 抽象基类
// 提供基础设施方法，不包含业务流程控制
type BaseHandler struct {
	meta       *JobMeta        // Job 元信息
	bizPayload json.RawMessage // 业务数据（job.Payload.Data.Data 部分）
	output     interface{}     // 最终输出结果
	resulter   Resulter        // 结果处理器（业务提供）
}

// Job 标准 Job 结构
type Job struct {
	Payload *JobPayload `json:"payload"`
}

type JobPayload struct {
	Data *JobPayloadData `json:"data"`
}

type JobPayloadData struct {
	RequestID  string          `json:"request_id"`
	ActionType string          `json:"action_type"`
	OrgID      string          `json:"org_id"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
}

// JobMeta Job 元信息
type JobMeta struct {
	RequestID  string `json:"request_id"`
	ActionType string `json:"action_type"`
	OrgID      string `json:"org_id"`
	ID         string `json:"id"`
	MessageID  string `json:"message_id,omitempty"`
}

// Response 标准响应结构
type Response struct {
	Error     *errorutil.Error `json:"error"`
	Result    interface{}      `json:"result"`
	Processed bool             `json:"processed"`
	Meta      *JobMeta         `json:"meta,omitempty"`
}

// ParseJob 解析 lmstfy Job 标准结构
// RequestID 为空时生成一个
func (b *BaseHandler) ParseJob(ctx context.Context, rawData []byte) error {
	var job Job
	if err := json.Unmarshal(rawData, &job); err != nil {
		return errorutil.NonRetriable("unmarshal job failed: " + err.Error())
	}

	if job.Payload == nil || job.Payload.Data == nil {
		return errorutil.NonRetriable("invalid job structure: payload.data is nil")
	}

	data := job.Payload.Data
	b.meta = &JobMeta{
		RequestID:  data.RequestID,
		ActionType: data.ActionType,
		OrgID:      data.OrgID,
		ID:         data.ID,
	}
	if b.meta.RequestID == "" {
		b.meta.RequestID = uuid.New().String()
	}

	b.bizPayload = data.Data

	return nil
}

// DecodeBizPayload 将业务数据解析到 dst
func (b *BaseHandler) DecodeBizPayload(dst interface{}) error {
	if len(b.bizPayload) == 0 || string(b.bizPayload) == "null" {
		return errorutil.NonRetriable("job payload data is empty")
	}
	if err := json.Unmarshal(b.bizPayload, dst); err != nil {
		return errorutil.NonRetriable("unmarshal job payload data failed: " + err.Error())
	}
	return nil
}

// WrapResponse 包装标准响应
func (b *BaseHandler) WrapResponse(ctx context.Context, output interface{}) ([]byte, error) {
	resp := &Response{
		Error:     nil,
		Result:    output,
		Processed: true,
		Meta:      b.meta,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, errorutil.Wrap(err)
	}

	return data, nil
}

// WrapErrorResponse 包装错误响应，原样返回 err 以便上层判断是否重投
func (b *BaseHandler) WrapErrorResponse(ctx context.Context, err error) ([]byte, error) {
	resp := &Response{
		Error:     errorutil.UnWrapResponse(err),
		Result:    b.output,
		Processed: false,
		Meta:      b.meta,
	}

	data, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return nil, err
	}

	return data, err
}

// GetMeta 获取 meta
func (b *BaseHandler) GetMeta() *JobMeta {
	return b.meta
}

// SetMessageID 记录 lmstfy 消息 ID
func (b *BaseHandler) SetMessageID(id string) {
	if b.meta != nil {
		b.meta.MessageID = id
	}
}

// SetOutput 设置输出
func (b *BaseHandler) SetOutput(output interface{}) {
	b.output = output
}

// GetOutput 获取输出
func (b *BaseHandler) GetOutput() interface{} {
	return b.output
}

// SetResulter 设置结果处理器
func (b *BaseHandler) SetResulter(resulter Resulter) {
	b.resulter = resulter
}

// GetResulter 获取结果处理器
func (b *BaseHandler) GetResulter() Resulter {
	return b.resulter
}
