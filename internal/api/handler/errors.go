package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/postboard_go_server/internal/pkg/response"
	"github.com/qs3c/postboard_go_server/internal/service"
)

// writeError 把服务层错误映射为统一响应
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrParentNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrInvalidContent):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrUpstream):
		response.UpstreamError(c, "")
	default:
		response.ServerError(c, "")
	}
}
