// Package mockapi 实现外部帖子/评论 REST API 的本地替身，用于开发和端到端测试。
// 响应为裸 JSON（不带 response 包的统一结构），与真实上游一致。
package mockapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/model"
	"github.com/qs3c/postboard_go_server/internal/repository"
)

type Handler struct {
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
}

func NewHandler(postRepo *repository.PostRepository, commentRepo *repository.CommentRepository) *Handler {
	return &Handler{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

type postBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
}

type commentBody struct {
	Content  string  `json:"content"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	ParentID *string `json:"parentId"`
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, "Not found")
}

func serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// ListPosts GET /post?page=&limit=&sortBy=createdAt&order=desc|asc
func (h *Handler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	asc := strings.EqualFold(c.Query("order"), "asc")

	records, _, err := h.postRepo.List(page, limit, asc)
	if err != nil {
		serverError(c, err)
		return
	}

	posts := make([]*model.Post, len(records))
	for i, r := range records {
		posts[i] = r.ToPost()
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost GET /post/:id
func (h *Handler) GetPost(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post.ToPost())
}

// CreatePost POST /post
func (h *Handler) CreatePost(c *gin.Context) {
	var body postBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := &model.PostRecord{
		Title:     body.Title,
		Content:   body.Content,
		Name:      body.Name,
		Avatar:    body.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.postRepo.Create(post); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post.ToPost())
}

// UpdatePost PUT /post/:id，空字段保持原值
func (h *Handler) UpdatePost(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	var body postBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Title != "" {
		post.Title = body.Title
	}
	if body.Content != "" {
		post.Content = body.Content
	}
	if body.Name != "" {
		post.Name = body.Name
	}
	if body.Avatar != "" {
		post.Avatar = body.Avatar
	}

	if err := h.postRepo.Update(post); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, post.ToPost())
}

// DeletePost DELETE /post/:id，不级联删除评论
func (h *Handler) DeletePost(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if _, err := h.postRepo.Delete(post.ID); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, post.ToPost())
}

// ListComments GET /post/:id/comment
func (h *Handler) ListComments(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	records, err := h.commentRepo.ListByPostID(post.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	comments := make([]model.Comment, len(records))
	for i, r := range records {
		comments[i] = r.ToComment()
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment POST /post/:id/comment
func (h *Handler) CreateComment(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := &model.CommentRecord{
		PostID:    post.ID,
		ParentID:  body.ParentID,
		Content:   body.Content,
		Name:      body.Name,
		Avatar:    body.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.commentRepo.Create(comment); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment.ToComment())
}

// UpdateComment PUT /post/:id/comment/:commentId
func (h *Handler) UpdateComment(c *gin.Context) {
	comment, ok := h.loadComment(c)
	if !ok {
		return
	}

	var body commentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Content != "" {
		comment.Content = body.Content
	}
	if body.Name != "" {
		comment.Name = body.Name
	}
	if body.Avatar != "" {
		comment.Avatar = body.Avatar
	}

	if err := h.commentRepo.Update(comment); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment.ToComment())
}

// DeleteComment DELETE /post/:id/comment/:commentId，只删除这一条
func (h *Handler) DeleteComment(c *gin.Context) {
	comment, ok := h.loadComment(c)
	if !ok {
		return
	}
	if _, err := h.commentRepo.Delete(comment.PostID, comment.ID); err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment.ToComment())
}

func (h *Handler) loadPost(c *gin.Context) (*model.PostRecord, bool) {
	post, err := h.postRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
		} else {
			serverError(c, err)
		}
		return nil, false
	}
	return post, true
}

func (h *Handler) loadComment(c *gin.Context) (*model.CommentRecord, bool) {
	comment, err := h.commentRepo.GetByID(c.Param("id"), c.Param("commentId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c)
		} else {
			serverError(c, err)
		}
		return nil, false
	}
	return comment, true
}
