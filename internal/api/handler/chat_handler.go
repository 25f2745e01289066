package handler

import (
	"github.com/gin-gonic/gin"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/service"
	"ai-counsellor/pkg/response"
)

// ChatHandler 顾问对话 HTTP 处理器
type ChatHandler struct {
	chatSvc service.ChatService
}

// NewChatHandler 创建 ChatHandler
func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Send 发送消息并返回顾问回复
// POST /api/v1/ai/chat
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	reply, err := h.chatSvc.Send(c.Request.Context(), userID, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, dto.ChatResponse{Result: reply})
}

// History 对话历史（首次访问时生成欢迎语）
// GET /api/v1/ai/chat/history
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	chats, err := h.chatSvc.History(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, dto.ChatHistoryResponse{Chats: chats})
}
