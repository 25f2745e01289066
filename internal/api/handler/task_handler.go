package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/service"
	"ai-counsellor/pkg/response"
)

// TaskHandler 申请任务 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// List 按院校分组的任务
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.List(c.Request.Context(), userID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

// Generate 为已收藏院校生成任务
// POST /api/v1/tasks/generate
func (h *TaskHandler) Generate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	tasks, err := h.taskSvc.Generate(c.Request.Context(), userID, req.UniversityName)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, gin.H{"tasks": tasks})
}

// Toggle 切换任务完成状态
// POST /api/v1/tasks/toggle
func (h *TaskHandler) Toggle(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ToggleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.taskSvc.Toggle(c.Request.Context(), userID, req.UniversityName, req.TaskID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotShortlisted):
		response.BadRequest(c, 15001, err.Error())
	case errors.Is(err, service.ErrInvalidTaskPayload):
		response.ErrorWithDetails(c, http.StatusBadGateway, 15002, "AI 返回的任务格式无效", err.Error())
	case errors.Is(err, service.ErrTasksNotFound):
		response.NotFound(c, 15003, err.Error())
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 15004, err.Error())
	default:
		handleCommonError(c, err)
	}
}
