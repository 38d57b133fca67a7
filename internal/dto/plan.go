package dto

import (
	"time"

	"course-planner/internal/model"
)

// AddEntryRequest 向计划添加课程
type AddEntryRequest struct {
	CourseID string `json:"course_id" binding:"required,uuid"`
	Term     string `json:"term"      binding:"required"`
	Year     string `json:"year"      binding:"required"` // 4 位年份字符串
}

// MoveEntryRequest 移动条目到新学期
type MoveEntryRequest struct {
	Term string `json:"term" binding:"required"`
	Year string `json:"year" binding:"required"`
}

// PlanEntryResponse 计划条目响应
type PlanEntryResponse struct {
	EntryID   string         `json:"entry_id"`
	Term      model.Term     `json:"term"`
	Year      int            `json:"year"`
	TermOrder int            `json:"term_order"`
	Position  int            `json:"position"`
	Status    string         `json:"status"`
	Course    CourseResponse `json:"course"`
}

// TermGroupResponse 一个 (term, year) 槽位及其条目
type TermGroupResponse struct {
	Term    model.Term          `json:"term"`
	Year    int                 `json:"year"`
	Entries []PlanEntryResponse `json:"entries"`
	Credits float64             `json:"credits"` // 槽位学分小计
}

// PlanResponse 计划响应
// 条目按学期时间顺序分组返回，组内按 position 排列
type PlanResponse struct {
	PlanID      string              `json:"plan_id"`
	StudentID   string              `json:"student_id"`
	Status      model.PlanStatus    `json:"status"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time          `json:"reviewed_at,omitempty"`
	Version     int                 `json:"version"`
	Terms       []TermGroupResponse `json:"terms"`
	Conflicts   []model.Conflict    `json:"conflicts"`
}

// NewPlanResponse 由模型构造计划响应，条目须已按 term_order, position 排序
func NewPlanResponse(p *model.Plan, conflicts []model.Conflict) PlanResponse {
	resp := PlanResponse{
		PlanID:      p.PlanID,
		StudentID:   p.StudentID,
		Status:      p.Status,
		SubmittedAt: p.SubmittedAt,
		ReviewedAt:  p.ReviewedAt,
		Version:     p.Version,
		Terms:       []TermGroupResponse{},
		Conflicts:   conflicts,
	}
	if conflicts == nil {
		resp.Conflicts = []model.Conflict{}
	}

	for i := range p.Entries {
		e := &p.Entries[i]
		n := len(resp.Terms)
		if n == 0 || resp.Terms[n-1].Term != e.Term || resp.Terms[n-1].Year != e.Year {
			resp.Terms = append(resp.Terms, TermGroupResponse{
				Term:    e.Term,
				Year:    e.Year,
				Entries: []PlanEntryResponse{},
			})
			n++
		}
		group := &resp.Terms[n-1]

		entry := PlanEntryResponse{
			EntryID:   e.EntryID,
			Term:      e.Term,
			Year:      e.Year,
			TermOrder: e.TermOrder,
			Position:  e.Position,
			Status:    string(e.Status),
		}
		if e.Course != nil {
			entry.Course = NewCourseResponse(e.Course)
			group.Credits += e.Course.Credits
		}
		group.Entries = append(group.Entries, entry)
	}
	return resp
}

// PlanSummaryResponse 计划列表项（审批队列用，不含条目明细）
type PlanSummaryResponse struct {
	PlanID      string           `json:"plan_id"`
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name,omitempty"`
	Status      model.PlanStatus `json:"status"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewPlanSummaryResponse 由模型构造计划列表项
func NewPlanSummaryResponse(p *model.Plan) PlanSummaryResponse {
	resp := PlanSummaryResponse{
		PlanID:      p.PlanID,
		StudentID:   p.StudentID,
		Status:      p.Status,
		SubmittedAt: p.SubmittedAt,
		ReviewedAt:  p.ReviewedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Student != nil {
		resp.StudentName = p.Student.Name
	}
	return resp
}

// ListPlansRequest 计划列表查询
type ListPlansRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=draft submitted approved declined"`
}
