package dto

import "encoding/json"

// ToolCallRequest 助手工具调用请求
// 外部对话引擎把模型产出的 tool call 原样转发到此接口执行
type ToolCallRequest struct {
	Tool string          `json:"tool" binding:"required,max=50"`
	Args json.RawMessage `json:"args" binding:"required"`
}

// ToolCallResponse 工具调用结果
// Plan 为执行后的最新计划快照，对话引擎据此组织回复
type ToolCallResponse struct {
	Tool   string       `json:"tool"`
	Result string       `json:"result"` // 面向用户的执行结果描述
	Plan   PlanResponse `json:"plan"`
}

// ToolSpec 工具描述（供对话引擎注册可用工具列表）
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema
}

// AddCourseArgs add_course 工具参数
type AddCourseArgs struct {
	CourseCode string `json:"course_code"` // 如 "CS 146"
	Term       string `json:"term"`
	Year       string `json:"year"`
}

// RemoveCourseArgs remove_course 工具参数
type RemoveCourseArgs struct {
	CourseCode string `json:"course_code"`
}

// MoveCourseArgs move_course 工具参数
type MoveCourseArgs struct {
	CourseCode string `json:"course_code"`
	Term       string `json:"term"`
	Year       string `json:"year"`
}
