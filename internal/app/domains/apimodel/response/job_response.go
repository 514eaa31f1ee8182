package response

import (
	"encoding/json"

	"oip/dprate/internal/app/domains/modules/mdratejob"
	"oip/dprate/pkg/infra/redis"
)

// JobStatusPending 任务已投递，结果尚未返回
const JobStatusPending = "PENDING"

// JobResponse 异步任务（DTO）
type JobResponse struct {
	ID        string          `json:"id"`
	MessageID string          `json:"message_id"`
	RequestID string          `json:"request_id"`
	Channel   string          `json:"channel,omitempty"`
	Status    string          `json:"status" example:"PENDING"` // PENDING / SUCCESS / FAILED
	Result    json.RawMessage `json:"result,omitempty" swaggertype:"object"`
	Reason    string          `json:"reason,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// FromSubmission 投递结果（及可能已收到的通知）→ DTO
func FromSubmission(sub *mdratejob.Submission, n *redis.RateResultNotification) *JobResponse {
	resp := &JobResponse{
		ID:        sub.ID,
		MessageID: sub.MessageID,
		RequestID: sub.RequestID,
		Channel:   sub.Channel,
		Status:    JobStatusPending,
	}
	if n != nil {
		resp.Status = n.Status
		resp.Result = n.Result
		resp.Reason = n.Reason
		resp.Message = n.Message
	}
	return resp
}
