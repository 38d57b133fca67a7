package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"course-planner/internal/api/middleware"
	"course-planner/internal/dto"
	"course-planner/internal/model"
	"course-planner/internal/service"
	"course-planner/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *model.User
	registerErr    error
	loginUser      *model.User
	loginTokens    *dto.TokenResponse
	loginErr       error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	logoutErr      error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*model.User, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*model.User, *dto.TokenResponse, error) {
	return m.loginUser, m.loginTokens, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error {
	return m.logoutErr
}

// ── Mock PlanService ──

type mockPlanService struct {
	plan      *model.Plan
	conflicts []model.Conflict
	err       error
}

func (m *mockPlanService) GetMyPlan(_ context.Context, _ string) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockPlanService) AddEntry(_ context.Context, _ string, _ *dto.AddEntryRequest) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockPlanService) RemoveEntry(_ context.Context, _, _ string) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockPlanService) MoveEntry(_ context.Context, _, _ string, _ *dto.MoveEntryRequest) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockPlanService) Submit(_ context.Context, _ string) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}

// ── Mock ReviewService ──

type mockReviewService struct {
	plans     []model.Plan
	total     int64
	plan      *model.Plan
	conflicts []model.Conflict
	logs      []model.PlanReviewLog
	err       error
}

func (m *mockReviewService) ListPlans(_ context.Context, _, _ string, _ *dto.ListPlansRequest) ([]model.Plan, int64, error) {
	return m.plans, m.total, m.err
}
func (m *mockReviewService) GetPlan(_ context.Context, _, _, _ string) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockReviewService) ReviewEntry(_ context.Context, _, _, _, _ string, _ *dto.ReviewEntryRequest) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockReviewService) ReviewTermGroup(_ context.Context, _, _, _ string, _ *dto.ReviewTermRequest) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockReviewService) ReviewPlan(_ context.Context, _, _, _ string, _ *dto.ReviewPlanRequest) (*model.Plan, []model.Conflict, error) {
	return m.plan, m.conflicts, m.err
}
func (m *mockReviewService) ListLogs(_ context.Context, _, _, _ string, _ *dto.PaginationRequest) ([]model.PlanReviewLog, int64, error) {
	return m.logs, int64(len(m.logs)), m.err
}

// ── Mock AssistantService ──

type mockAssistantService struct {
	tools  []dto.ToolSpec
	result *dto.ToolCallResponse
	err    error
}

func (m *mockAssistantService) ListTools(_ context.Context) ([]dto.ToolSpec, error) {
	return m.tools, m.err
}
func (m *mockAssistantService) CallTool(_ context.Context, _ string, _ *dto.ToolCallRequest) (*dto.ToolCallResponse, error) {
	return m.result, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportPlan(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func newTestHandler(services *service.Services) *Handler {
	return NewHandler(services, zap.NewNop())
}

func setAuth(c *gin.Context) {
	c.Set(middleware.CtxUserID, "test-user-id")
	c.Set(middleware.CtxRole, "student")
	c.Set(middleware.CtxToken, "test-token")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp) //nolint:errcheck
	return resp
}

func testPlan() *model.Plan {
	return &model.Plan{
		PlanID:    "plan-1",
		StudentID: "test-user-id",
		Status:    model.PlanStatusDraft,
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	h := newTestHandler(&service.Services{Auth: &mockAuthService{
		loginUser: &model.User{UserID: "u1", Name: "Alice", Email: "alice@test.edu", Role: "student"},
		loginTokens: &dto.TokenResponse{
			AccessToken:  "test-access",
			RefreshToken: "test-refresh",
			ExpiresIn:    900,
		},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "alice@test.edu",
		Password: "Test1234!",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Auth.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := newTestHandler(&service.Services{Auth: &mockAuthService{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Auth.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := newTestHandler(&service.Services{Auth: &mockAuthService{
		loginErr: service.ErrInvalidCredentials,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "alice@test.edu",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Auth.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := newTestHandler(&service.Services{Auth: &mockAuthService{
		registerErr: service.ErrEmailTaken,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@test.edu",
		Password: "Test1234!",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Auth.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PlanHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPlanHandler_Get_Success(t *testing.T) {
	h := newTestHandler(&service.Services{Plan: &mockPlanService{plan: testPlan()}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/plan", nil)

	r := gin.New()
	r.GET("/plan", func(c *gin.Context) {
		setAuth(c)
		h.Plan.Get(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestPlanHandler_AddEntry_Duplicate(t *testing.T) {
	h := newTestHandler(&service.Services{Plan: &mockPlanService{
		err: &service.DuplicateCourseError{PlanID: "plan-1", CourseCode: "CS 146"},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/plan/entries", jsonBody(dto.AddEntryRequest{
		CourseID: "8d7c9c3e-0000-0000-0000-000000000001",
		Term:     "Fall",
		Year:     "2025",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/plan/entries", func(c *gin.Context) {
		setAuth(c)
		h.Plan.AddEntry(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 40901 {
		t.Errorf("expected error code 40901, got %d", resp.Code)
	}
}

func TestPlanHandler_MoveEntry_Conflict(t *testing.T) {
	h := newTestHandler(&service.Services{Plan: &mockPlanService{
		err: &service.ConflictingCourseError{PlanID: "plan-1", CourseCode: "CS 200", Term: "Fall", Year: 2025},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/plan/entries/e1/slot", jsonBody(dto.MoveEntryRequest{
		Term: "Fall",
		Year: "2025",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/plan/entries/:id/slot", func(c *gin.Context) {
		setAuth(c)
		h.Plan.MoveEntry(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 40902 {
		t.Errorf("expected error code 40902, got %d", resp.Code)
	}
}

func TestPlanHandler_Submit_EmptyPlan(t *testing.T) {
	h := newTestHandler(&service.Services{Plan: &mockPlanService{
		err: service.ErrEmptyPlanSubmit,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/plan/submit", nil)

	r := gin.New()
	r.POST("/plan/submit", func(c *gin.Context) {
		setAuth(c)
		h.Plan.Submit(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReviewHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReviewHandler_ReviewPlan_Success(t *testing.T) {
	plan := testPlan()
	plan.Status = model.PlanStatusApproved
	h := newTestHandler(&service.Services{Review: &mockReviewService{plan: plan}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/review/plans/plan-1", jsonBody(dto.ReviewPlanRequest{
		Status: "approved",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/review/plans/:id", func(c *gin.Context) {
		setAuth(c)
		c.Set(middleware.CtxRole, "advisor")
		h.Review.ReviewPlan(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestReviewHandler_ReviewPlan_NotAdvisor(t *testing.T) {
	h := newTestHandler(&service.Services{Review: &mockReviewService{
		err: service.ErrNotAdvisorOfPlan,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/review/plans/plan-1", jsonBody(dto.ReviewPlanRequest{
		Status: "approved",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/review/plans/:id", func(c *gin.Context) {
		setAuth(c)
		h.Review.ReviewPlan(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestReviewHandler_ReviewPlan_InvalidStatus(t *testing.T) {
	h := newTestHandler(&service.Services{Review: &mockReviewService{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/review/plans/plan-1", jsonBody(map[string]string{
		"status": "draft",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/review/plans/:id", func(c *gin.Context) {
		setAuth(c)
		h.Review.ReviewPlan(c)
	})
	r.ServeHTTP(w, req)

	// oneof 绑定校验直接拦下非法状态
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssistantHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssistantHandler_CallTool_Unknown(t *testing.T) {
	h := newTestHandler(&service.Services{Assistant: &mockAssistantService{
		err: service.ErrUnknownTool,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assistant/tools/call", jsonBody(dto.ToolCallRequest{
		Tool: "nope",
		Args: json.RawMessage(`{}`),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assistant/tools/call", func(c *gin.Context) {
		setAuth(c)
		h.Assistant.CallTool(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAssistantHandler_CallTool_Disabled(t *testing.T) {
	h := newTestHandler(&service.Services{Assistant: &mockAssistantService{
		err: service.ErrAssistantDisabled,
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assistant/tools/call", jsonBody(dto.ToolCallRequest{
		Tool: "add_course",
		Args: json.RawMessage(`{}`),
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/assistant/tools/call", func(c *gin.Context) {
		setAuth(c)
		h.Assistant.CallTool(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportPlan_Success(t *testing.T) {
	h := newTestHandler(&service.Services{Export: &mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "plan_abc12345.xlsx",
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/plan/export", nil)

	r := gin.New()
	r.GET("/plan/export", func(c *gin.Context) {
		setAuth(c)
		h.Export.ExportPlan(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="plan_abc12345.xlsx"` {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
}
