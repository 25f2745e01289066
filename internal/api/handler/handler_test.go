package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ai-counsellor/internal/api/middleware"
	"ai-counsellor/internal/directory"
	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/model"
	"ai-counsellor/internal/service"
	pkgerrors "ai-counsellor/pkg/errors"
	"ai-counsellor/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	signupResult *dto.AuthResponse
	signupErr    error
	loginResult  *dto.AuthResponse
	loginErr     error
	logoutJTI    string
	logoutExp    time.Time
	meResult     *dto.UserResponse
	meErr        error
}

func (m *mockAuthService) Signup(_ context.Context, _ *dto.SignupRequest) (*dto.AuthResponse, error) {
	return m.signupResult, m.signupErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.AuthResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, exp time.Time) error {
	m.logoutJTI, m.logoutExp = jti, exp
	return nil
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock ProfileService ──

type mockProfileService struct {
	onboardingErr error
	replaceErr    error
}

func (m *mockProfileService) Get(_ context.Context, _ string) (*model.StudentProfile, error) {
	return &model.StudentProfile{GPA: "8"}, nil
}
func (m *mockProfileService) Onboarding(_ context.Context, userID string, _ *dto.ProfileRequest) (*dto.UserResponse, error) {
	if m.onboardingErr != nil {
		return nil, m.onboardingErr
	}
	return &dto.UserResponse{ID: userID, OnboardingCompleted: true}, nil
}
func (m *mockProfileService) Replace(_ context.Context, userID string, _ *dto.ProfileRequest) (*dto.UserResponse, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	return &dto.UserResponse{ID: userID}, nil
}
func (m *mockProfileService) Merge(_ context.Context, _ string, req *dto.ProfileRequest) (*model.StudentProfile, error) {
	p := req.ToModel()
	return &p, nil
}

// ── Mock UniversityService ──

type mockUniversityService struct {
	listMode string
	err      error
}

func (m *mockUniversityService) List(_ context.Context, _ string, mode string) (*dto.UniversityListResponse, error) {
	m.listMode = mode
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UniversityListResponse{Mode: mode}, nil
}
func (m *mockUniversityService) Recalculate(ctx context.Context, userID, mode string) (*dto.UniversityListResponse, error) {
	return m.List(ctx, userID, mode)
}
func (m *mockUniversityService) USStats(_ context.Context) ([]directory.USSchoolStats, error) {
	return []directory.USSchoolStats{{Name: "A"}}, m.err
}
func (m *mockUniversityService) Analyze(_ context.Context, req *dto.AnalyzeUniversityRequest) (*dto.AnalyzeUniversityResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.AnalyzeUniversityResponse{Analysis: "about " + req.University}, nil
}

// ── Mock ShortlistService ──

type mockShortlistService struct {
	err    error
	export []byte
}

func (m *mockShortlistService) List(_ context.Context, _ string) (*dto.ShortlistResponse, error) {
	return &dto.ShortlistResponse{ApplicationStage: model.StageDiscovering}, m.err
}
func (m *mockShortlistService) Toggle(_ context.Context, _ string, in *dto.ShortlistUniversityInput) (*dto.ShortlistResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ShortlistResponse{ShortlistedUniversities: []model.ShortlistedUniversity{{Name: in.Name}}}, nil
}
func (m *mockShortlistService) Lock(_ context.Context, _ string, _ string) (*dto.ShortlistResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ShortlistResponse{ApplicationStage: model.StageApplying}, nil
}
func (m *mockShortlistService) ExportExcel(_ context.Context, _ string) ([]byte, error) {
	return m.export, m.err
}
func (m *mockShortlistService) ExportCalendar(_ context.Context, _ string) ([]byte, error) {
	return m.export, m.err
}

// ── Mock TaskService ──

type mockTaskService struct {
	err error
}

func (m *mockTaskService) Generate(_ context.Context, _ string, uni string) ([]model.ApplicationTask, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []model.ApplicationTask{{UniversityName: uni, TaskKey: "sop", Title: "Draft SOP"}}, nil
}
func (m *mockTaskService) Toggle(_ context.Context, _ string, _ string, _ string) (*dto.ToggleTaskResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ToggleTaskResponse{Completed: true}, nil
}
func (m *mockTaskService) List(_ context.Context, _ string) (*dto.TaskListResponse, error) {
	return &dto.TaskListResponse{}, m.err
}

// ── Mock ChatService ──

type mockChatService struct {
	reply string
	err   error
}

func (m *mockChatService) Send(_ context.Context, _ string, _ *dto.ChatRequest) (string, error) {
	return m.reply, m.err
}
func (m *mockChatService) History(_ context.Context, _ string) ([]model.ChatMessage, error) {
	return []model.ChatMessage{{Role: model.ChatRoleAssistant, Message: "hello"}}, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set(middleware.ContextUserID, "test-user-id")
	c.Set(middleware.ContextTokenJTI, "test-jti")
	c.Set(middleware.ContextTokenExp, time.Now().Add(time.Hour))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// serve 注册单个路由并执行请求；authed 为 true 时注入认证上下文
func serve(method, path string, body io.Reader, authed bool, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, path, func(c *gin.Context) {
		if authed {
			setAuth(c)
		}
		h(c)
	})
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	if w.Code != status {
		t.Errorf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != code {
		t.Errorf("expected code %d, got %d", code, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Signup(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{signupResult: &dto.AuthResponse{AccessToken: "tok", ExpiresIn: 3600}})
	w := serve("POST", "/auth/signup", jsonBody(dto.SignupRequest{Name: "A", Email: "a@x.io", Password: "secret1"}), false, h.Signup)
	expect(t, w, http.StatusCreated, 0)
}

func TestAuthHandler_SignupErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   int
	}{
		{service.ErrSignupFieldsRequired, http.StatusBadRequest, 11001},
		{service.ErrPasswordTooShort, http.StatusBadRequest, 11002},
		{service.ErrEmailRegistered, http.StatusBadRequest, 11003},
		{errors.New("db down"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := NewAuthHandler(&mockAuthService{signupErr: tt.err})
			w := serve("POST", "/auth/signup", jsonBody(dto.SignupRequest{}), false, h.Signup)
			expect(t, w, tt.status, tt.code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrIncorrectPassword})
	w := serve("POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@x.io", Password: "bad"}), false, h.Login)
	expect(t, w, http.StatusBadRequest, 11005)

	w = serve("POST", "/auth/login", bytes.NewReader([]byte("invalid json")), false, h.Login)
	expect(t, w, http.StatusBadRequest, 10001)
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)
	w := serve("POST", "/auth/logout", nil, true, h.Logout)
	expect(t, w, http.StatusOK, 0)
	if mock.logoutJTI != "test-jti" || mock.logoutExp.IsZero() {
		t.Errorf("expected token meta to be forwarded, got %q %v", mock.logoutJTI, mock.logoutExp)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{meErr: service.ErrUserNotFound})
	expect(t, serve("GET", "/auth/me", nil, true, h.Me), http.StatusNotFound, 10006)
	expect(t, serve("GET", "/auth/me", nil, false, h.Me), http.StatusUnauthorized, 10002)
}

// ═══════════════════════════════════════════════════════════
// ProfileHandler Tests
// ═══════════════════════════════════════════════════════════

func TestProfileHandler_Onboarding(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{})
	expect(t, serve("PUT", "/profile/onboarding", jsonBody(dto.ProfileRequest{}), true, h.Onboarding), http.StatusOK, 0)

	missing := fmt.Errorf("%w: major", service.ErrProfileFieldMissing)
	h = NewProfileHandler(&mockProfileService{onboardingErr: missing})
	w := serve("PUT", "/profile/onboarding", jsonBody(dto.ProfileRequest{}), true, h.Onboarding)
	expect(t, w, http.StatusBadRequest, 12001)
	if resp := parseResponse(w); resp.Message != "缺少必填字段: major" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	h = NewProfileHandler(&mockProfileService{onboardingErr: service.ErrPreferredCountryRequired})
	expect(t, serve("PUT", "/profile/onboarding", jsonBody(dto.ProfileRequest{}), true, h.Onboarding), http.StatusBadRequest, 12002)
}

func TestProfileHandler_ReplaceUpstreamFailure(t *testing.T) {
	upstream := fmt.Errorf("%w: hipolabs timeout", pkgerrors.ErrUpstream)
	h := NewProfileHandler(&mockProfileService{replaceErr: upstream})
	w := serve("PUT", "/profile", jsonBody(dto.ProfileRequest{}), true, h.Replace)
	expect(t, w, http.StatusBadGateway, 13001)
	if resp := parseResponse(w); resp.Details == "" {
		t.Error("expected upstream details")
	}
}

func TestProfileHandler_Merge(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{})
	w := serve("POST", "/profile", jsonBody(dto.ProfileRequest{Major: " Physics "}), true, h.Merge)
	expect(t, w, http.StatusOK, 0)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"major":"Physics"`)) {
		t.Errorf("expected merged profile in body, got %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// UniversityHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUniversityHandler_ListPassesMode(t *testing.T) {
	mock := &mockUniversityService{}
	h := NewUniversityHandler(mock)

	r := gin.New()
	r.GET("/universities", func(c *gin.Context) { setAuth(c); h.List(c) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/universities?mode=explore", nil))

	expect(t, w, http.StatusOK, 0)
	if mock.listMode != "explore" {
		t.Errorf("expected mode explore, got %q", mock.listMode)
	}
}

func TestUniversityHandler_Errors(t *testing.T) {
	h := NewUniversityHandler(&mockUniversityService{err: pkgerrors.ErrOptimisticLock})
	expect(t, serve("POST", "/universities/recalculate", nil, true, h.Recalculate), http.StatusConflict, 13002)

	h = NewUniversityHandler(&mockUniversityService{err: fmt.Errorf("%w: scorecard 403", pkgerrors.ErrUpstream)})
	expect(t, serve("GET", "/universities/us", nil, false, h.USStats), http.StatusBadGateway, 13001)
}

func TestUniversityHandler_Analyze(t *testing.T) {
	h := NewUniversityHandler(&mockUniversityService{})
	expect(t, serve("POST", "/universities/analyze", jsonBody(map[string]string{}), false, h.Analyze), http.StatusBadRequest, 10001)

	w := serve("POST", "/universities/analyze", jsonBody(dto.AnalyzeUniversityRequest{University: "ETH Zurich"}), false, h.Analyze)
	expect(t, w, http.StatusOK, 0)
}

// ═══════════════════════════════════════════════════════════
// ShortlistHandler Tests
// ═══════════════════════════════════════════════════════════

func TestShortlistHandler_Lock(t *testing.T) {
	body := func() io.Reader { return jsonBody(dto.LockUniversityRequest{Name: "TU Munich"}) }

	h := NewShortlistHandler(&mockShortlistService{})
	expect(t, serve("POST", "/shortlist/lock", body(), true, h.Lock), http.StatusOK, 0)

	h = NewShortlistHandler(&mockShortlistService{err: service.ErrNoShortlist})
	expect(t, serve("POST", "/shortlist/lock", body(), true, h.Lock), http.StatusBadRequest, 14001)

	h = NewShortlistHandler(&mockShortlistService{err: service.ErrNotShortlisted})
	expect(t, serve("POST", "/shortlist/lock", body(), true, h.Lock), http.StatusNotFound, 14002)
}

func TestShortlistHandler_Toggle(t *testing.T) {
	h := NewShortlistHandler(&mockShortlistService{})
	w := serve("POST", "/shortlist", jsonBody(dto.ToggleShortlistRequest{University: dto.ShortlistUniversityInput{Name: "ETH Zurich"}}), true, h.Toggle)
	expect(t, w, http.StatusOK, 0)

	w = serve("POST", "/shortlist", jsonBody(map[string]interface{}{"university": map[string]string{}}), true, h.Toggle)
	expect(t, w, http.StatusBadRequest, 10001)
}

func TestShortlistHandler_Export(t *testing.T) {
	h := NewShortlistHandler(&mockShortlistService{export: []byte("BEGIN:VCALENDAR")})
	w := serve("GET", "/shortlist/calendar", nil, true, h.ExportCalendar)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="deadlines.ics"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	if w.Body.String() != "BEGIN:VCALENDAR" {
		t.Errorf("unexpected body %q", w.Body.String())
	}

	h = NewShortlistHandler(&mockShortlistService{err: service.ErrNothingToExport})
	expect(t, serve("GET", "/shortlist/export", nil, true, h.ExportExcel), http.StatusNotFound, 14003)
}

// ═══════════════════════════════════════════════════════════
// TaskHandler / ChatHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTaskHandler_Errors(t *testing.T) {
	gen := func() io.Reader { return jsonBody(dto.GenerateTasksRequest{UniversityName: "MIT"}) }
	tests := []struct {
		err    error
		status int
		code   int
	}{
		{service.ErrNotShortlisted, http.StatusBadRequest, 15001},
		{service.ErrInvalidTaskPayload, http.StatusBadGateway, 15002},
		{fmt.Errorf("%w: 429", pkgerrors.ErrUpstream), http.StatusBadGateway, 13001},
	}
	for _, tt := range tests {
		h := NewTaskHandler(&mockTaskService{err: tt.err})
		expect(t, serve("POST", "/tasks/generate", gen(), true, h.Generate), tt.status, tt.code)
	}

	toggle := func() io.Reader { return jsonBody(dto.ToggleTaskRequest{UniversityName: "MIT", TaskID: "sop"}) }
	h := NewTaskHandler(&mockTaskService{err: service.ErrTasksNotFound})
	expect(t, serve("POST", "/tasks/toggle", toggle(), true, h.Toggle), http.StatusNotFound, 15003)
	h = NewTaskHandler(&mockTaskService{err: service.ErrTaskNotFound})
	expect(t, serve("POST", "/tasks/toggle", toggle(), true, h.Toggle), http.StatusNotFound, 15004)
}

func TestTaskHandler_Generate(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{})
	w := serve("POST", "/tasks/generate", jsonBody(dto.GenerateTasksRequest{UniversityName: "MIT"}), true, h.Generate)
	expect(t, w, http.StatusOK, 0)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"id":"sop"`)) {
		t.Errorf("expected task key in body, got %s", w.Body.String())
	}
}

func TestChatHandler(t *testing.T) {
	h := NewChatHandler(&mockChatService{reply: "🎓 hi"})
	w := serve("POST", "/ai/chat", jsonBody(dto.ChatRequest{Message: "hello"}), true, h.Send)
	expect(t, w, http.StatusOK, 0)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"result":"🎓 hi"`)) {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	expect(t, serve("POST", "/ai/chat", jsonBody(dto.ChatRequest{}), true, h.Send), http.StatusBadRequest, 10001)

	h = NewChatHandler(&mockChatService{err: fmt.Errorf("%w: timeout", pkgerrors.ErrUpstream)})
	expect(t, serve("GET", "/ai/chat/history", nil, true, h.History), http.StatusBadGateway, 13001)
}
