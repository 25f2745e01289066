package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-counsellor/internal/service"
	pkgerrors "ai-counsellor/pkg/errors"
	"ai-counsellor/pkg/response"
)

// 通用业务码
const (
	codeInvalidParams = 10001
	codeUserNotFound  = 10006
	codeUpstream      = 13001
	codeConflict      = 13002
)

// handleCommonError 处理跨模块共享的错误；未识别时返回 500
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, codeUserNotFound, "用户不存在")
	case errors.Is(err, pkgerrors.ErrUpstream):
		response.ErrorWithDetails(c, http.StatusBadGateway, codeUpstream, pkgerrors.ErrUpstream.Error(), err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, codeConflict, "画像已被并发修改，请重试")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
