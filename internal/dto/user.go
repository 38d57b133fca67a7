package dto

import "course-planner/internal/model"

// UserResponse 用户信息响应
type UserResponse struct {
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Major     string  `json:"major,omitempty"`
	AdvisorID *string `json:"advisor_id,omitempty"`
}

// NewUserResponse 由模型构造用户响应
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Major:     u.Major,
		AdvisorID: u.AdvisorID,
	}
}

// UpdateProfileRequest 更新个人信息请求
type UpdateProfileRequest struct {
	Name  string `json:"name"  binding:"omitempty,max=100"`
	Major string `json:"major" binding:"omitempty,max=100"`
}

// AssignAdvisorRequest 管理员为学生指派顾问
type AssignAdvisorRequest struct {
	AdvisorID string `json:"advisor_id" binding:"required,uuid"`
}

// ListUsersRequest 用户列表查询
type ListUsersRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,oneof=student advisor admin"`
}
