package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ai-counsellor/internal/dto"
	"ai-counsellor/internal/service"
	"ai-counsellor/pkg/response"
)

// ProfileHandler 学生画像 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// Get 当前画像
// GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.Get(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, profile)
}

// Onboarding 提交问卷
// PUT /api/v1/profile/onboarding
func (h *ProfileHandler) Onboarding(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.profileSvc.Onboarding(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, result)
}

// Replace 整体替换画像并重算
// PUT /api/v1/profile
func (h *ProfileHandler) Replace(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.profileSvc.Replace(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, result)
}

// Merge 合并画像字段
// POST /api/v1/profile
func (h *ProfileHandler) Merge(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}

	profile, err := h.profileSvc.Merge(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileFieldMissing):
		response.BadRequest(c, 12001, err.Error())
	case errors.Is(err, service.ErrPreferredCountryRequired):
		response.BadRequest(c, 12002, err.Error())
	default:
		handleCommonError(c, err)
	}
}
