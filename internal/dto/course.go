package dto

import "course-planner/internal/model"

// MeetingRequest 上课时间
type MeetingRequest struct {
	Day       string `json:"day"        binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" binding:"required,max=10"`
	EndTime   string `json:"end_time"   binding:"required,max=10"`
	Room      string `json:"room"       binding:"omitempty,max=50"`
}

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Subject  string           `json:"subject"  binding:"required,max=10"`
	Number   string           `json:"number"   binding:"required,max=10"`
	Title    string           `json:"title"    binding:"required,max=200"`
	Credits  float64          `json:"credits"  binding:"omitempty,min=0,max=30"`
	Meetings []MeetingRequest `json:"meetings" binding:"omitempty,dive"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Title    string           `json:"title"    binding:"omitempty,max=200"`
	Credits  *float64         `json:"credits"  binding:"omitempty,min=0,max=30"`
	Meetings []MeetingRequest `json:"meetings" binding:"omitempty,dive"`
	Version  int              `json:"version"  binding:"required,min=1"`
}

// ListCoursesRequest 课程列表查询
type ListCoursesRequest struct {
	PaginationRequest
	Subject string `form:"subject" binding:"omitempty,max=10"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// ImportMeetingsRequest 从 iCalendar 文件导入上课时间
type ImportMeetingsRequest struct {
	ICS string `json:"ics" binding:"required"` // iCalendar 文本内容
}

// MeetingResponse 上课时间响应
type MeetingResponse struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room,omitempty"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	CourseID string            `json:"course_id"`
	Code     string            `json:"code"` // 如 "CS 146"
	Subject  string            `json:"subject"`
	Number   string            `json:"number"`
	Title    string            `json:"title"`
	Credits  float64           `json:"credits"`
	Version  int               `json:"version"`
	Meetings []MeetingResponse `json:"meetings"`
}

// NewCourseResponse 由模型构造课程响应
func NewCourseResponse(c *model.Course) CourseResponse {
	meetings := make([]MeetingResponse, 0, len(c.Meetings))
	for i := range c.Meetings {
		m := &c.Meetings[i]
		meetings = append(meetings, MeetingResponse{
			Day:       m.Day,
			StartTime: m.StartTime,
			EndTime:   m.EndTime,
			Room:      m.Room,
		})
	}
	return CourseResponse{
		CourseID: c.CourseID,
		Code:     c.Code(),
		Subject:  c.Subject,
		Number:   c.Number,
		Title:    c.Title,
		Credits:  c.Credits,
		Version:  c.Version,
		Meetings: meetings,
	}
}
