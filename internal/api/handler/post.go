package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/postboard_go_server/internal/model/dto"
	"github.com/qs3c/postboard_go_server/internal/pkg/response"
	"github.com/qs3c/postboard_go_server/internal/service"
)

const maxPageLimit = 100

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// List 获取帖子列表
// GET /api/v1/posts?page=&limit=&order=newest|oldest
func (h *PostHandler) List(c *gin.Context) {
	var req dto.ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	if req.Page < 1 || req.Limit < 1 || req.Limit > maxPageLimit {
		response.ParamError(c, "page must be >= 1 and limit between 1 and 100")
		return
	}
	if req.Order != "newest" && req.Order != "oldest" {
		response.ParamError(c, "order must be newest or oldest")
		return
	}

	list, err := h.postService.List(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, list)
}

// Get 获取帖子详情
// GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, post)
}

// Create 创建帖子
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	post, err := h.postService.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Post created", post)
}

// Update 编辑帖子
// PUT /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	post, err := h.postService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Post updated", post)
}

// Delete 删除帖子及其全部评论
// DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	result, err := h.postService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Post deleted", result)
}
