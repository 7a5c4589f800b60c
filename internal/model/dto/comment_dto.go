package dto

import "github.com/qs3c/postboard_go_server/internal/model"

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,min=3,max=2000"`
	Name     string  `json:"name" binding:"required,min=2,max=100"`
	Avatar   string  `json:"avatar" binding:"omitempty,url"`
	ParentID *string `json:"parentId,omitempty"`
}

// UpdateCommentRequest 编辑评论请求（作者信息可选）
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=3,max=2000"`
	Name    string `json:"name" binding:"omitempty,min=2,max=100"`
	Avatar  string `json:"avatar" binding:"omitempty,url"`
}

// CommentTree 评论树响应
type CommentTree struct {
	PostID string               `json:"postId"`
	Total  int                  `json:"total"`
	Shown  int                  `json:"shown"`
	Depth  int                  `json:"depth"`
	Items  []*model.CommentNode `json:"items"`
}

// DeleteReport 批量/级联删除结果
type DeleteReport struct {
	PostID    string          `json:"postId"`
	TargetID  string          `json:"targetId,omitempty"`
	Attempted int             `json:"attempted"`
	Deleted   []string        `json:"deleted"`
	Failed    []DeleteFailure `json:"failed"`
}

// DeleteFailure 单条删除失败
type DeleteFailure struct {
	CommentID string `json:"commentId"`
	Error     string `json:"error"`
}
