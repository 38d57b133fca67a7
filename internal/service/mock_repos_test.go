package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"course-planner/internal/model"
	"course-planner/internal/repository"
	pkgerrors "course-planner/pkg/errors"
)

// mockDB 内存版数据层，各 mock 仓储共享同一份数据
type mockDB struct {
	users   map[string]*model.User
	courses map[string]*model.Course
	plans   map[string]*model.Plan
	entries map[string]*model.PlanEntry
	logs    []model.PlanReviewLog
}

func newMockDB() *mockDB {
	return &mockDB{
		users:   make(map[string]*model.User),
		courses: make(map[string]*model.Course),
		plans:   make(map[string]*model.Plan),
		entries: make(map[string]*model.PlanEntry),
	}
}

// repo 把 mock 实现组装成服务层使用的聚合
func (d *mockDB) repo() *repository.Repository {
	return &repository.Repository{
		User:          &mockUserRepo{d},
		Course:        &mockCourseRepo{d},
		CourseMeeting: &mockMeetingRepo{d},
		Plan:          &mockPlanRepo{d},
		PlanEntry:     &mockEntryRepo{d},
		PlanReviewLog: &mockLogRepo{d},
	}
}

// ── 用户 ──

type mockUserRepo struct{ db *mockDB }

func (r *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	user.Version = 1
	cp := *user
	r.db.users[user.UserID] = &cp
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := r.db.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.db.users[user.UserID] = &cp
	return nil
}

func (r *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	for _, u := range r.db.users {
		if role == "" || u.Role == role {
			users = append(users, *u)
		}
	}
	return users, int64(len(users)), nil
}

// ── 课程 ──

type mockCourseRepo struct{ db *mockDB }

func (r *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = uuid.New().String()
	}
	course.Version = 1
	for i := range course.Meetings {
		if course.Meetings[i].MeetingID == "" {
			course.Meetings[i].MeetingID = uuid.New().String()
		}
		course.Meetings[i].CourseID = course.CourseID
	}
	cp := *course
	cp.Meetings = append([]model.CourseMeeting(nil), course.Meetings...)
	r.db.courses[course.CourseID] = &cp
	return nil
}

func (r *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := r.db.courses[id]
	if !ok || c.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return copyCourse(c), nil
}

func (r *mockCourseRepo) GetByCode(_ context.Context, subject, number string) (*model.Course, error) {
	for _, c := range r.db.courses {
		if !c.DeletedAt.Valid && c.Subject == subject && c.Number == number {
			return copyCourse(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	stored, ok := r.db.courses[course.CourseID]
	if !ok || stored.Version != course.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Subject = course.Subject
	stored.Number = course.Number
	stored.Title = course.Title
	stored.Credits = course.Credits
	stored.Version++
	return nil
}

func (r *mockCourseRepo) Delete(_ context.Context, id string, _ string) error {
	if c, ok := r.db.courses[id]; ok {
		c.DeletedAt.Valid = true
	}
	return nil
}

func (r *mockCourseRepo) List(_ context.Context, subject, keyword string, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	for _, c := range r.db.courses {
		if c.DeletedAt.Valid {
			continue
		}
		if subject != "" && c.Subject != subject {
			continue
		}
		courses = append(courses, *copyCourse(c))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code() < courses[j].Code() })
	return courses, int64(len(courses)), nil
}

func (r *mockCourseRepo) GetByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	var courses []model.Course
	for _, id := range ids {
		if c, ok := r.db.courses[id]; ok && !c.DeletedAt.Valid {
			courses = append(courses, *copyCourse(c))
		}
	}
	return courses, nil
}

func copyCourse(c *model.Course) *model.Course {
	cp := *c
	cp.Meetings = append([]model.CourseMeeting(nil), c.Meetings...)
	return &cp
}

// ── 上课时间 ──

type mockMeetingRepo struct{ db *mockDB }

func (r *mockMeetingRepo) Create(_ context.Context, meeting *model.CourseMeeting) error {
	if meeting.MeetingID == "" {
		meeting.MeetingID = uuid.New().String()
	}
	if c, ok := r.db.courses[meeting.CourseID]; ok {
		c.Meetings = append(c.Meetings, *meeting)
	}
	return nil
}

func (r *mockMeetingRepo) ReplaceForCourse(_ context.Context, courseID string, meetings []model.CourseMeeting) error {
	c, ok := r.db.courses[courseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Meetings = nil
	for i := range meetings {
		meetings[i].CourseID = courseID
		if meetings[i].MeetingID == "" {
			meetings[i].MeetingID = uuid.New().String()
		}
		c.Meetings = append(c.Meetings, meetings[i])
	}
	return nil
}

func (r *mockMeetingRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseMeeting, error) {
	if c, ok := r.db.courses[courseID]; ok {
		return append([]model.CourseMeeting(nil), c.Meetings...), nil
	}
	return nil, nil
}

// ── 计划 ──

type mockPlanRepo struct{ db *mockDB }

func (r *mockPlanRepo) Create(_ context.Context, plan *model.Plan) error {
	if plan.PlanID == "" {
		plan.PlanID = uuid.New().String()
	}
	plan.Version = 1
	cp := *plan
	cp.Entries = nil
	r.db.plans[plan.PlanID] = &cp
	return nil
}

func (r *mockPlanRepo) GetByID(_ context.Context, id string) (*model.Plan, error) {
	p, ok := r.db.plans[id]
	if !ok || p.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return r.db.loadPlan(p), nil
}

func (r *mockPlanRepo) GetByStudent(_ context.Context, studentID string) (*model.Plan, error) {
	for _, p := range r.db.plans {
		if !p.DeletedAt.Valid && p.StudentID == studentID {
			return r.db.loadPlan(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockPlanRepo) Update(_ context.Context, plan *model.Plan) error {
	stored, ok := r.db.plans[plan.PlanID]
	if !ok || stored.Version != plan.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = plan.Status
	stored.SubmittedAt = plan.SubmittedAt
	stored.ReviewedAt = plan.ReviewedAt
	stored.Version++
	plan.Version++
	return nil
}

func (r *mockPlanRepo) List(_ context.Context, status string, offset, limit int) ([]model.Plan, int64, error) {
	var plans []model.Plan
	for _, p := range r.db.plans {
		if status == "" || string(p.Status) == status {
			plans = append(plans, *r.db.loadPlan(p))
		}
	}
	return plans, int64(len(plans)), nil
}

func (r *mockPlanRepo) ListByAdvisor(_ context.Context, advisorID, status string, offset, limit int) ([]model.Plan, int64, error) {
	var plans []model.Plan
	for _, p := range r.db.plans {
		student, ok := r.db.users[p.StudentID]
		if !ok || student.AdvisorID == nil || *student.AdvisorID != advisorID {
			continue
		}
		if status == "" || string(p.Status) == status {
			plans = append(plans, *r.db.loadPlan(p))
		}
	}
	return plans, int64(len(plans)), nil
}

// loadPlan 组装计划快照：挂载排序后的条目与课程，与真实仓储的
// Preload + ORDER BY term_order, position 行为一致
func (d *mockDB) loadPlan(p *model.Plan) *model.Plan {
	cp := *p
	cp.Entries = nil
	for _, e := range d.entries {
		if e.PlanID != p.PlanID || e.DeletedAt.Valid {
			continue
		}
		ec := *e
		if c, ok := d.courses[e.CourseID]; ok {
			ec.Course = copyCourse(c)
		}
		cp.Entries = append(cp.Entries, ec)
	}
	sort.Slice(cp.Entries, func(i, j int) bool {
		if cp.Entries[i].TermOrder != cp.Entries[j].TermOrder {
			return cp.Entries[i].TermOrder < cp.Entries[j].TermOrder
		}
		return cp.Entries[i].Position < cp.Entries[j].Position
	})
	return &cp
}

// ── 计划条目 ──

type mockEntryRepo struct{ db *mockDB }

func (r *mockEntryRepo) Create(_ context.Context, entry *model.PlanEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.New().String()
	}
	entry.Version = 1
	cp := *entry
	cp.Course = nil
	r.db.entries[entry.EntryID] = &cp
	return nil
}

func (r *mockEntryRepo) GetByID(_ context.Context, id string) (*model.PlanEntry, error) {
	e, ok := r.db.entries[id]
	if !ok || e.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	if c, ok := r.db.courses[e.CourseID]; ok {
		cp.Course = copyCourse(c)
	}
	return &cp, nil
}

func (r *mockEntryRepo) Update(_ context.Context, entry *model.PlanEntry) error {
	stored, ok := r.db.entries[entry.EntryID]
	if !ok || stored.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Term = entry.Term
	stored.Year = entry.Year
	stored.TermOrder = entry.TermOrder
	stored.Position = entry.Position
	stored.Status = entry.Status
	stored.Version++
	entry.Version++
	return nil
}

func (r *mockEntryRepo) Delete(_ context.Context, id string, _ string) error {
	if e, ok := r.db.entries[id]; ok {
		e.DeletedAt.Valid = true
	}
	return nil
}

func (r *mockEntryRepo) ListByPlan(_ context.Context, planID string) ([]model.PlanEntry, error) {
	p, ok := r.db.plans[planID]
	if !ok {
		return nil, nil
	}
	return r.db.loadPlan(p).Entries, nil
}

func (r *mockEntryRepo) ListByTermGroup(_ context.Context, planID, term string, year int) ([]model.PlanEntry, error) {
	var entries []model.PlanEntry
	for _, e := range r.db.entries {
		if e.PlanID == planID && !e.DeletedAt.Valid && string(e.Term) == term && e.Year == year {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	return entries, nil
}

func (r *mockEntryRepo) MaxPosition(_ context.Context, planID, term string, year int) (int, error) {
	max := -1
	for _, e := range r.db.entries {
		if e.PlanID == planID && !e.DeletedAt.Valid && string(e.Term) == term && e.Year == year && e.Position > max {
			max = e.Position
		}
	}
	return max, nil
}

// ── 审批记录 ──

type mockLogRepo struct{ db *mockDB }

func (r *mockLogRepo) Create(_ context.Context, log *model.PlanReviewLog) error {
	if log.LogID == "" {
		log.LogID = uuid.New().String()
	}
	r.db.logs = append(r.db.logs, *log)
	return nil
}

func (r *mockLogRepo) CreateBatch(_ context.Context, logs []model.PlanReviewLog) error {
	for i := range logs {
		if logs[i].LogID == "" {
			logs[i].LogID = uuid.New().String()
		}
		r.db.logs = append(r.db.logs, logs[i])
	}
	return nil
}

func (r *mockLogRepo) ListByPlan(_ context.Context, planID string, offset, limit int) ([]model.PlanReviewLog, int64, error) {
	var logs []model.PlanReviewLog
	for _, l := range r.db.logs {
		if l.PlanID == planID {
			logs = append(logs, l)
		}
	}
	return logs, int64(len(logs)), nil
}
