package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"course-planner/config"
	"course-planner/internal/dto"
	"course-planner/internal/model"
	pkgerrors "course-planner/pkg/errors"
)

func newTestAssistant(db *mockDB, enabled bool) AssistantService {
	cfg := &config.Config{Feature: config.FeatureConfig{AssistantEnabled: enabled}}
	planSvc := NewPlanService(db.repo(), zap.NewNop())
	return NewAssistantService(db.repo(), planSvc, cfg, zap.NewNop())
}

func TestAssistant_DisabledByFeatureFlag(t *testing.T) {
	db := newMockDB()
	svc := newTestAssistant(db, false)
	ctx := context.Background()

	if _, err := svc.ListTools(ctx); !errors.Is(err, ErrAssistantDisabled) {
		t.Errorf("期望 ListTools 返回 ErrAssistantDisabled，实际=%v", err)
	}
	_, err := svc.CallTool(ctx, "someone", &dto.ToolCallRequest{
		Tool: "add_course",
		Args: json.RawMessage(`{}`),
	})
	if !errors.Is(err, ErrAssistantDisabled) {
		t.Errorf("期望 CallTool 返回 ErrAssistantDisabled，实际=%v", err)
	}
}

func TestAssistant_UnknownTool(t *testing.T) {
	db := newMockDB()
	student := seedStudent(db, "alice")
	svc := newTestAssistant(db, true)

	_, err := svc.CallTool(context.Background(), student.UserID, &dto.ToolCallRequest{
		Tool: "drop_all_courses",
		Args: json.RawMessage(`{}`),
	})
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("期望 ErrUnknownTool，实际=%v", err)
	}
}

func TestAssistant_ListTools(t *testing.T) {
	db := newMockDB()
	svc := newTestAssistant(db, true)

	tools, err := svc.ListTools(context.Background())
	if err != nil {
		t.Fatalf("查询工具列表失败: %v", err)
	}
	want := map[string]bool{"add_course": false, "remove_course": false, "move_course": false}
	for _, tool := range tools {
		if _, ok := want[tool.Name]; !ok {
			t.Errorf("意外的工具: %s", tool.Name)
			continue
		}
		want[tool.Name] = true
		if !json.Valid(tool.Parameters) {
			t.Errorf("工具 %s 的参数 schema 不是合法 JSON", tool.Name)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("缺少工具: %s", name)
		}
	}
}

func TestAssistant_AddCourse(t *testing.T) {
	db := newMockDB()
	student := seedStudent(db, "alice")
	seedCourse(db, "CS", "146")
	svc := newTestAssistant(db, true)

	resp, err := svc.CallTool(context.Background(), student.UserID, &dto.ToolCallRequest{
		Tool: "add_course",
		Args: json.RawMessage(`{"course_code": "CS 146", "term": "Fall", "year": "2025"}`),
	})
	if err != nil {
		t.Fatalf("add_course 失败: %v", err)
	}
	if !strings.Contains(resp.Result, "CS 146") {
		t.Errorf("期望结果描述包含课程代码，实际=%s", resp.Result)
	}
	if len(resp.Plan.Terms) != 1 || len(resp.Plan.Terms[0].Entries) != 1 {
		t.Fatalf("期望计划快照含 1 个条目，实际=%+v", resp.Plan.Terms)
	}
	if resp.Plan.Terms[0].Entries[0].Course.Code != "CS 146" {
		t.Errorf("期望条目课程 CS 146，实际=%s", resp.Plan.Terms[0].Entries[0].Course.Code)
	}
}

func TestAssistant_MoveCourseByCode(t *testing.T) {
	db := newMockDB()
	student := seedStudent(db, "alice")
	seedCourse(db, "CS", "146")
	svc := newTestAssistant(db, true)
	ctx := context.Background()

	if _, err := svc.CallTool(ctx, student.UserID, &dto.ToolCallRequest{
		Tool: "add_course",
		Args: json.RawMessage(`{"course_code": "CS 146", "term": "Fall", "year": "2025"}`),
	}); err != nil {
		t.Fatalf("add_course 失败: %v", err)
	}

	resp, err := svc.CallTool(ctx, student.UserID, &dto.ToolCallRequest{
		Tool: "move_course",
		Args: json.RawMessage(`{"course_code": "cs 146", "term": "Spring", "year": "2026"}`),
	})
	if err != nil {
		t.Fatalf("move_course 失败: %v", err)
	}
	if resp.Plan.Terms[0].Term != model.TermSpring || resp.Plan.Terms[0].Year != 2026 {
		t.Errorf("期望条目移动到 Spring 2026，实际=%s %d",
			resp.Plan.Terms[0].Term, resp.Plan.Terms[0].Year)
	}
}

func TestAssistant_RemoveCourseNotInPlan(t *testing.T) {
	db := newMockDB()
	student := seedStudent(db, "alice")
	seedCourse(db, "CS", "146")
	svc := newTestAssistant(db, true)

	_, err := svc.CallTool(context.Background(), student.UserID, &dto.ToolCallRequest{
		Tool: "remove_course",
		Args: json.RawMessage(`{"course_code": "CS 146"}`),
	})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("期望 ErrEntryNotFound，实际=%v", err)
	}
}

func TestAssistant_BadCourseCode(t *testing.T) {
	db := newMockDB()
	student := seedStudent(db, "alice")
	svc := newTestAssistant(db, true)

	_, err := svc.CallTool(context.Background(), student.UserID, &dto.ToolCallRequest{
		Tool: "add_course",
		Args: json.RawMessage(`{"course_code": "CS146", "term": "Fall", "year": "2025"}`),
	})
	if _, ok := pkgerrors.AsValidationError(err); !ok {
		t.Errorf("期望 ValidationError，实际=%v", err)
	}
}
