package dto

// AnalyzeUniversityRequest 单校分析请求
type AnalyzeUniversityRequest struct {
	University string                 `json:"university" binding:"required"`
	Website    string                 `json:"website"`
	Profile    map[string]interface{} `json:"profile"`
}

// ShortlistUniversityInput 收藏切换时提交的院校快照
type ShortlistUniversityInput struct {
	Name       string `json:"name"        binding:"required"`
	Country    string `json:"country"`
	PortalURL  string `json:"portal_url"`
	MatchScore int    `json:"match_score"`
	Tuition    int    `json:"tuition"`
	Ranking    *int   `json:"ranking"`
}

// ToggleShortlistRequest 收藏切换请求
type ToggleShortlistRequest struct {
	University ShortlistUniversityInput `json:"university" binding:"required"`
}

// LockUniversityRequest 锁定院校请求
type LockUniversityRequest struct {
	Name string `json:"name" binding:"required"`
}

// GenerateTasksRequest 生成申请任务请求
type GenerateTasksRequest struct {
	UniversityName string `json:"university_name" binding:"required"`
}

// ToggleTaskRequest 切换任务完成状态请求
type ToggleTaskRequest struct {
	UniversityName string `json:"university_name" binding:"required"`
	TaskID         string `json:"task_id"         binding:"required"`
}

// ChatContext 对话关联的任务/院校
type ChatContext struct {
	TaskTitle  string `json:"task_title"`
	University string `json:"university"`
}

// ChatRequest 顾问对话请求
type ChatRequest struct {
	Message string       `json:"message" binding:"required"`
	Context *ChatContext `json:"context"`
}
