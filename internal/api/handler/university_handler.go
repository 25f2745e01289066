package handler

import (
	"github.com/gin-gonic/gin"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/service"
	"ai-counsellor/pkg/response"
)

// UniversityHandler 院校匹配 HTTP 处理器
type UniversityHandler struct {
	universitySvc service.UniversityService
}

// NewUniversityHandler 创建 UniversityHandler
func NewUniversityHandler(universitySvc service.UniversityService) *UniversityHandler {
	return &UniversityHandler{universitySvc: universitySvc}
}

// List 匹配结果
// GET /api/v1/universities?mode=ai|explore
func (h *UniversityHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.universitySvc.List(c.Request.Context(), userID, c.Query("mode"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}

// Recalculate 强制重算
// POST /api/v1/universities/recalculate?mode=ai|explore
func (h *UniversityHandler) Recalculate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.universitySvc.Recalculate(c.Request.Context(), userID, c.Query("mode"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}

// USStats 美国院校统计
// GET /api/v1/universities/us
func (h *UniversityHandler) USStats(c *gin.Context) {
	stats, err := h.universitySvc.USStats(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, stats)
}

// Analyze 单校录取分析
// POST /api/v1/universities/analyze
func (h *UniversityHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.universitySvc.Analyze(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}
