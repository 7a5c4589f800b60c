package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/postboard_go_server/internal/model/dto"
	"github.com/qs3c/postboard_go_server/internal/pkg/response"
	"github.com/qs3c/postboard_go_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Tree 获取评论树
// GET /api/v1/posts/:id/comments
func (h *CommentHandler) Tree(c *gin.Context) {
	tree, err := h.commentService.Tree(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, tree)
}

// Create 发表评论或回复
// POST /api/v1/posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Comment added", comment)
}

// Update 编辑评论
// PUT /api/v1/posts/:id/comments/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), c.Param("id"), c.Param("commentId"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Comment updated", comment)
}

// Delete 删除评论及其全部回复，部分失败时仍返回成功并附带失败列表
// DELETE /api/v1/posts/:id/comments/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	report, err := h.commentService.Delete(c.Request.Context(), c.Param("id"), c.Param("commentId"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Comment deleted", report)
}

// DeleteAll 删除帖子下全部评论
// DELETE /api/v1/posts/:id/comments
func (h *CommentHandler) DeleteAll(c *gin.Context) {
	report := h.commentService.DeleteAll(c.Request.Context(), c.Param("id"))
	response.SuccessWithMessage(c, "All comments deleted", report)
}
