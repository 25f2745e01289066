package dto

import (
	"time"

	"ai-counsellor/internal/matching"
	"ai-counsellor/internal/model"
)

// ── 认证模块响应 ──

// AuthResponse 注册/登录响应
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"` // 秒
	User        UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	OnboardingCompleted bool                 `json:"onboarding_completed"`
	ApplicationStage    string               `json:"application_stage"`
	Profile             model.StudentProfile `json:"profile"`
	UniversityMode      string               `json:"university_mode"`
	ProfileVersion      int                  `json:"profile_version"`
	CreatedAt           time.Time            `json:"created_at"`
}

// NewUserResponse 从模型构造脱敏响应
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:                  u.UserID,
		Name:                u.Name,
		Email:               u.Email,
		OnboardingCompleted: u.OnboardingCompleted,
		ApplicationStage:    u.ApplicationStage,
		Profile:             u.Profile,
		UniversityMode:      u.UniversityMode,
		ProfileVersion:      u.ProfileVersion,
		CreatedAt:           u.CreatedAt,
	}
}

// ── 院校模块响应 ──

// UniversityListResponse 院校匹配列表
type UniversityListResponse struct {
	Mode           string                       `json:"mode"`
	ProfileVersion int                          `json:"profile_version"`
	Countries      []matching.CountryMatchGroup `json:"countries"`
}

// AnalyzeUniversityResponse 单校分析结果
type AnalyzeUniversityResponse struct {
	Analysis string `json:"analysis"`
}

// ShortlistResponse 收藏列表与当前申请阶段
type ShortlistResponse struct {
	ShortlistedUniversities []model.ShortlistedUniversity `json:"shortlisted_universities"`
	ApplicationStage        string                        `json:"application_stage"`
}

// ── 任务模块响应 ──

// TaskListResponse 申请任务（按院校分组）
type TaskListResponse struct {
	Universities []UniversityTasks `json:"universities"`
}

// UniversityTasks 单个院校的任务
type UniversityTasks struct {
	UniversityName string                  `json:"university_name"`
	Tasks          []model.ApplicationTask `json:"tasks"`
}

// ToggleTaskResponse 切换后的完成状态
type ToggleTaskResponse struct {
	Completed bool `json:"completed"`
}

// ── 对话模块响应 ──

// ChatResponse 顾问回复
type ChatResponse struct {
	Result string `json:"result"`
}

// ChatHistoryResponse 对话历史
type ChatHistoryResponse struct {
	Chats []model.ChatMessage `json:"chats"`
}
