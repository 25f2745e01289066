package handler

import "ai-counsellor/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	University *UniversityHandler
	Shortlist  *ShortlistHandler
	Task       *TaskHandler
	Chat       *ChatHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Profile:    NewProfileHandler(svc.Profile),
		University: NewUniversityHandler(svc.University),
		Shortlist:  NewShortlistHandler(svc.Shortlist),
		Task:       NewTaskHandler(svc.Task),
		Chat:       NewChatHandler(svc.Chat),
	}
}
