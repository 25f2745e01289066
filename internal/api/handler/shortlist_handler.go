package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/service"
	"ai-counsellor/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ShortlistHandler 收藏/锁定 HTTP 处理器
type ShortlistHandler struct {
	shortlistSvc service.ShortlistService
}

// NewShortlistHandler 创建 ShortlistHandler
func NewShortlistHandler(shortlistSvc service.ShortlistService) *ShortlistHandler {
	return &ShortlistHandler{shortlistSvc: shortlistSvc}
}

// List 收藏列表与申请阶段
// GET /api/v1/shortlist
func (h *ShortlistHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.shortlistSvc.List(c.Request.Context(), userID)
	if err != nil {
		h.handleShortlistError(c, err)
		return
	}
	response.OK(c, result)
}

// Toggle 收藏/取消收藏
// POST /api/v1/shortlist
func (h *ShortlistHandler) Toggle(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ToggleShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.shortlistSvc.Toggle(c.Request.Context(), userID, &req.University)
	if err != nil {
		h.handleShortlistError(c, err)
		return
	}
	response.OK(c, result)
}

// Lock 锁定院校
// POST /api/v1/shortlist/lock
func (h *ShortlistHandler) Lock(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.LockUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.shortlistSvc.Lock(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.handleShortlistError(c, err)
		return
	}
	response.OK(c, result)
}

// ExportExcel 导出收藏列表
// GET /api/v1/shortlist/export
func (h *ShortlistHandler) ExportExcel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, err := h.shortlistSvc.ExportExcel(c.Request.Context(), userID)
	if err != nil {
		h.handleShortlistError(c, err)
		return
	}
	response.Attachment(c, "shortlist.xlsx", contentTypeXLSX, data)
}

// ExportCalendar 导出已锁定院校的截止日期
// GET /api/v1/shortlist/calendar
func (h *ShortlistHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, err := h.shortlistSvc.ExportCalendar(c.Request.Context(), userID)
	if err != nil {
		h.handleShortlistError(c, err)
		return
	}
	response.Attachment(c, "deadlines.ics", contentTypeICS, data)
}

func (h *ShortlistHandler) handleShortlistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoShortlist):
		response.BadRequest(c, 14001, err.Error())
	case errors.Is(err, service.ErrNotShortlisted):
		response.NotFound(c, 14002, err.Error())
	case errors.Is(err, service.ErrNothingToExport):
		response.NotFound(c, 14003, err.Error())
	default:
		handleCommonError(c, err)
	}
}
