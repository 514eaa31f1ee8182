package lmstfyx

import (
	"context"

	"github.com/bitleak/lmstfy/client"
)

// Proc 业务处理函数类型（GetProcess 的函数签名）
type Proc func(ctx context.Context, job *client.Job) *JobResp

// JobRespStatus 消息处理结果状态
type JobRespStatus int

const (
	// JobRespStatusSuccess 处理完成（含业务失败且已回调），ACK 消息
	JobRespStatusSuccess JobRespStatus = iota
	// JobRespStatusRelease 需要重试，不 ACK，TTR 到期后由 lmstfy 重新投递
	JobRespStatusRelease
	// JobRespStatusBury 消息无法处理（格式错误、未知 action），ACK 丢弃
	JobRespStatusBury
)

// String 日志展示
func (s JobRespStatus) String() string {
	switch s {
	case JobRespStatusSuccess:
		return "success"
	case JobRespStatusRelease:
		return "release"
	case JobRespStatusBury:
		return "bury"
	}
	return "unknown"
}

// ShouldAck 是否需要 ACK
func (s JobRespStatus) ShouldAck() bool {
	return s != JobRespStatusRelease
}

// JobResp 消息处理结果
type JobResp struct {
	Action JobRespStatus // 处理动作
	Data   []byte        // 响应数据（可选，用于回调或日志）
}

// Success 处理成功
func Success(data []byte) *JobResp {
	return &JobResp{Action: JobRespStatusSuccess, Data: data}
}

// Release 等待重投
func Release(data []byte) *JobResp {
	return &JobResp{Action: JobRespStatusRelease, Data: data}
}

// Bury 丢弃
func Bury(data []byte) *JobResp {
	return &JobResp{Action: JobRespStatusBury, Data: data}
}
