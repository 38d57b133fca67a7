package dto

import (
	"time"

	"course-planner/internal/model"
)

// ReviewEntryRequest 审批单个条目
type ReviewEntryRequest struct {
	Status string `json:"status" binding:"required,oneof=approved declined"`
	Note   string `json:"note"   binding:"omitempty,max=500"`
}

// ReviewTermRequest 按学期批量审批
type ReviewTermRequest struct {
	Term   string `json:"term"   binding:"required"`
	Year   string `json:"year"   binding:"required"`
	Status string `json:"status" binding:"required,oneof=approved declined"`
	Note   string `json:"note"   binding:"omitempty,max=500"`
}

// ReviewPlanRequest 整计划批量审批
type ReviewPlanRequest struct {
	Status string `json:"status" binding:"required,oneof=approved declined"`
	Note   string `json:"note"   binding:"omitempty,max=500"`
}

// ReviewLogResponse 审批记录响应
type ReviewLogResponse struct {
	LogID      string    `json:"log_id"`
	EntryID    *string   `json:"entry_id,omitempty"`
	Action     string    `json:"action"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	Note       string    `json:"note,omitempty"`
	OperatorID string    `json:"operator_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewReviewLogResponse 由模型构造审批记录响应
func NewReviewLogResponse(l *model.PlanReviewLog) ReviewLogResponse {
	return ReviewLogResponse{
		LogID:      l.LogID,
		EntryID:    l.EntryID,
		Action:     l.Action,
		OldStatus:  l.OldStatus,
		NewStatus:  l.NewStatus,
		Note:       l.Note,
		OperatorID: l.OperatorID,
		CreatedAt:  l.CreatedAt,
	}
}
