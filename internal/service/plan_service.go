package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-planner/internal/dto"
	"course-planner/internal/model"
	"course-planner/internal/repository"
)

// PlanService 修读计划服务接口
type PlanService interface {
	// GetMyPlan 查询学生本人的计划，不存在时惰性创建空计划
	GetMyPlan(ctx context.Context, studentID string) (*model.Plan, []model.Conflict, error)
	// AddEntry 向计划添加课程；同一课程至多出现一次
	AddEntry(ctx context.Context, studentID string, req *dto.AddEntryRequest) (*model.Plan, []model.Conflict, error)
	// RemoveEntry 从计划移除条目
	RemoveEntry(ctx context.Context, studentID, entryID string) (*model.Plan, []model.Conflict, error)
	// MoveEntry 移动条目到新学期；目标槽位已有同一门课程时拒绝
	MoveEntry(ctx context.Context, studentID, entryID string, req *dto.MoveEntryRequest) (*model.Plan, []model.Conflict, error)
	// Submit 提交计划送审
	Submit(ctx context.Context, studentID string) (*model.Plan, []model.Conflict, error)
}

type planService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(repo *repository.Repository, logger *zap.Logger) PlanService {
	return &planService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════════

func (s *planService) GetMyPlan(ctx context.Context, studentID string) (*model.Plan, []model.Conflict, error) {
	plan, err := s.loadOrCreatePlan(ctx, s.repo, studentID)
	if err != nil {
		return nil, nil, err
	}
	return plan, model.DetectConflicts(plan.Entries), nil
}

// loadOrCreatePlan 按学生查计划，不存在时创建空的 draft 计划
func (s *planService) loadOrCreatePlan(ctx context.Context, repo *repository.Repository, studentID string) (*model.Plan, error) {
	plan, err := repo.Plan.GetByStudent(ctx, studentID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plan = &model.Plan{
		StudentID: studentID,
		Status:    model.PlanStatusDraft,
	}
	plan.CreatedBy = &studentID
	if err := repo.Plan.Create(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("惰性创建修读计划",
		zap.String("student_id", studentID),
		zap.String("plan_id", plan.PlanID))
	plan.Entries = []model.PlanEntry{}
	return plan, nil
}

// ════════════════════════════════════════════════════════════════
// 添加课程
// ════════════════════════════════════════════════════════════════

func (s *planService) AddEntry(ctx context.Context, studentID string, req *dto.AddEntryRequest) (*model.Plan, []model.Conflict, error) {
	term, year, orderKey, err := model.ParseOrderKey(req.Term, req.Year)
	if err != nil {
		return nil, nil, err
	}

	var (
		plan      *model.Plan
		conflicts []model.Conflict
		course    *model.Course
	)
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		plan, err = s.loadOrCreatePlan(ctx, txRepo, studentID)
		if err != nil {
			return err
		}

		course, err = txRepo.Course.GetByID(ctx, req.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		// 同一课程在整份计划中至多出现一次，跨学期也不允许重复
		for i := range plan.Entries {
			if plan.Entries[i].CourseID == course.CourseID {
				return &DuplicateCourseError{PlanID: plan.PlanID, CourseCode: course.Code()}
			}
		}

		maxPos, err := txRepo.PlanEntry.MaxPosition(ctx, plan.PlanID, string(term), year)
		if err != nil {
			return err
		}

		entry := &model.PlanEntry{
			PlanID:    plan.PlanID,
			CourseID:  course.CourseID,
			Term:      term,
			Year:      year,
			TermOrder: orderKey,
			Position:  maxPos + 1,
			Status:    model.EntryStatusDraft,
		}
		entry.CreatedBy = &studentID
		if err := txRepo.PlanEntry.Create(ctx, entry); err != nil {
			return err
		}

		// 已提交 / 已通过的计划再次编辑时整体回退为草稿，需重新送审
		if plan.Status == model.PlanStatusSubmitted || plan.Status == model.PlanStatusApproved {
			old := plan.Status
			plan.Status = model.PlanStatusDraft
			plan.UpdatedBy = &studentID
			if err := txRepo.Plan.Update(ctx, plan); err != nil {
				return err
			}
			if err := txRepo.PlanReviewLog.Create(ctx, &model.PlanReviewLog{
				PlanID:     plan.PlanID,
				Action:     "recompute",
				OldStatus:  string(old),
				NewStatus:  string(model.PlanStatusDraft),
				Note:       "计划修改后回退为草稿",
				OperatorID: studentID,
			}); err != nil {
				return err
			}
		}

		plan, conflicts, err = finishMutation(ctx, txRepo, plan.PlanID, studentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("计划添加课程",
		zap.String("plan_id", plan.PlanID),
		zap.String("course", course.Code()),
		zap.String("term", string(term)),
		zap.Int("year", year))
	return plan, conflicts, nil
}

// ════════════════════════════════════════════════════════════════
// 移除课程
// ════════════════════════════════════════════════════════════════

func (s *planService) RemoveEntry(ctx context.Context, studentID, entryID string) (*model.Plan, []model.Conflict, error) {
	var (
		plan      *model.Plan
		conflicts []model.Conflict
	)
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var entry *model.PlanEntry
		var err error
		plan, entry, err = loadOwnedEntry(ctx, txRepo, studentID, entryID)
		if err != nil {
			return err
		}

		if err := txRepo.PlanEntry.Delete(ctx, entry.EntryID, studentID); err != nil {
			return err
		}

		plan, conflicts, err = finishMutation(ctx, txRepo, plan.PlanID, studentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("计划移除课程",
		zap.String("plan_id", plan.PlanID),
		zap.String("entry_id", entryID))
	return plan, conflicts, nil
}

// ════════════════════════════════════════════════════════════════
// 移动课程
// ════════════════════════════════════════════════════════════════

func (s *planService) MoveEntry(ctx context.Context, studentID, entryID string, req *dto.MoveEntryRequest) (*model.Plan, []model.Conflict, error) {
	term, year, orderKey, err := model.ParseOrderKey(req.Term, req.Year)
	if err != nil {
		return nil, nil, err
	}

	var (
		plan      *model.Plan
		conflicts []model.Conflict
	)
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var entry *model.PlanEntry
		var err error
		plan, entry, err = loadOwnedEntry(ctx, txRepo, studentID, entryID)
		if err != nil {
			return err
		}

		// 原地移动视为幂等成功
		if entry.Term == term && entry.Year == year {
			conflicts = model.DetectConflicts(plan.Entries)
			return nil
		}

		// 目标槽位已存在同一门课程时拒绝移动，计划保持原状；
		// 时间重叠不阻止移动，只随冲突清单返回给调用方
		for i := range plan.Entries {
			e := &plan.Entries[i]
			if e.EntryID != entry.EntryID && e.Term == term && e.Year == year && e.CourseID == entry.CourseID {
				code := ""
				if entry.Course != nil {
					code = entry.Course.Code()
				}
				return &ConflictingCourseError{
					PlanID:     plan.PlanID,
					CourseCode: code,
					Term:       string(term),
					Year:       year,
				}
			}
		}

		maxPos, err := txRepo.PlanEntry.MaxPosition(ctx, plan.PlanID, string(term), year)
		if err != nil {
			return err
		}

		entry.Term = term
		entry.Year = year
		entry.TermOrder = orderKey
		entry.Position = maxPos + 1
		entry.UpdatedBy = &studentID
		if err := txRepo.PlanEntry.Update(ctx, entry); err != nil {
			return err
		}

		plan, conflicts, err = finishMutation(ctx, txRepo, plan.PlanID, studentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("计划移动课程",
		zap.String("plan_id", plan.PlanID),
		zap.String("entry_id", entryID),
		zap.String("term", string(term)),
		zap.Int("year", year))
	return plan, conflicts, nil
}

// ════════════════════════════════════════════════════════════════
// 提交送审
// ════════════════════════════════════════════════════════════════

func (s *planService) Submit(ctx context.Context, studentID string) (*model.Plan, []model.Conflict, error) {
	var (
		plan      *model.Plan
		conflicts []model.Conflict
	)
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		plan, err = s.loadOrCreatePlan(ctx, txRepo, studentID)
		if err != nil {
			return err
		}
		if len(plan.Entries) == 0 {
			return ErrEmptyPlanSubmit
		}

		now := time.Now()
		var logs []model.PlanReviewLog

		// draft / declined 条目随提交进入 submitted，已通过的条目保持不动
		for i := range plan.Entries {
			e := &plan.Entries[i]
			if e.Status != model.EntryStatusDraft && e.Status != model.EntryStatusDeclined {
				continue
			}
			old := e.Status
			e.Status = model.EntryStatusSubmitted
			e.UpdatedBy = &studentID
			if err := txRepo.PlanEntry.Update(ctx, e); err != nil {
				return err
			}
			entryID := e.EntryID
			logs = append(logs, model.PlanReviewLog{
				PlanID:     plan.PlanID,
				EntryID:    &entryID,
				Action:     "submit",
				OldStatus:  string(old),
				NewStatus:  string(model.EntryStatusSubmitted),
				OperatorID: studentID,
			})
		}

		oldPlanStatus := plan.Status
		plan.Status = model.PlanStatusSubmitted
		plan.SubmittedAt = &now
		plan.UpdatedBy = &studentID
		if err := txRepo.Plan.Update(ctx, plan); err != nil {
			return err
		}
		logs = append(logs, model.PlanReviewLog{
			PlanID:     plan.PlanID,
			Action:     "submit",
			OldStatus:  string(oldPlanStatus),
			NewStatus:  string(model.PlanStatusSubmitted),
			OperatorID: studentID,
		})
		if err := txRepo.PlanReviewLog.CreateBatch(ctx, logs); err != nil {
			return err
		}

		plan, err = txRepo.Plan.GetByID(ctx, plan.PlanID)
		if err != nil {
			return err
		}
		conflicts = model.DetectConflicts(plan.Entries)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("计划提交送审",
		zap.String("plan_id", plan.PlanID),
		zap.String("student_id", studentID))
	return plan, conflicts, nil
}

// ── 内部辅助 ──────────────────────────────────────────────

// loadOwnedEntry 加载条目并校验归属：条目必须属于该学生本人的计划
func loadOwnedEntry(ctx context.Context, repo *repository.Repository, studentID, entryID string) (*model.Plan, *model.PlanEntry, error) {
	plan, err := repo.Plan.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrEntryNotFound
		}
		return nil, nil, err
	}
	for i := range plan.Entries {
		if plan.Entries[i].EntryID == entryID {
			return plan, &plan.Entries[i], nil
		}
	}
	return nil, nil, ErrEntryNotFound
}

// finishMutation 变更收尾：重读计划、重算聚合状态、做冲突检测
// 学生 mutation 与顾问审批共用，保证返回的快照与库内状态一致
func finishMutation(ctx context.Context, repo *repository.Repository, planID, operatorID string) (*model.Plan, []model.Conflict, error) {
	plan, err := repo.Plan.GetByID(ctx, planID)
	if err != nil {
		return nil, nil, err
	}

	if newStatus, changed := recomputePlanStatus(plan.Status, plan.Entries); changed {
		old := plan.Status
		plan.Status = newStatus
		if newStatus == model.PlanStatusApproved || newStatus == model.PlanStatusDeclined {
			now := time.Now()
			plan.ReviewedAt = &now
		}
		plan.UpdatedBy = &operatorID
		if err := repo.Plan.Update(ctx, plan); err != nil {
			return nil, nil, err
		}
		if err := repo.PlanReviewLog.Create(ctx, &model.PlanReviewLog{
			PlanID:     plan.PlanID,
			Action:     "recompute",
			OldStatus:  string(old),
			NewStatus:  string(newStatus),
			OperatorID: operatorID,
		}); err != nil {
			return nil, nil, err
		}
	}

	return plan, model.DetectConflicts(plan.Entries), nil
}

// recomputePlanStatus 由条目状态推导计划聚合状态
// 规则：条目为空或仍有待审条目时保持现状；全部审毕后
// declined 优先于 approved。重复调用结果相同（幂等）。
func recomputePlanStatus(current model.PlanStatus, entries []model.PlanEntry) (model.PlanStatus, bool) {
	if len(entries) == 0 {
		return current, false
	}
	hasDeclined := false
	for i := range entries {
		if entries[i].Status.Pending() {
			return current, false
		}
		if entries[i].Status == model.EntryStatusDeclined {
			hasDeclined = true
		}
	}
	next := model.PlanStatusApproved
	if hasDeclined {
		next = model.PlanStatusDeclined
	}
	if next == current {
		return current, false
	}
	return next, true
}

// [自证通过] internal/service/plan_service.go
