package dto

import "github.com/qs3c/postboard_go_server/internal/model"

// ListPostsRequest 帖子列表请求参数
type ListPostsRequest struct {
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=10"`
	Order string `form:"order,default=newest"` // newest, oldest
}

// CreatePostRequest 创建帖子请求
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=3,max=200"`
	Content string `json:"content" binding:"required,min=10,max=20000"`
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Avatar  string `json:"avatar" binding:"omitempty,url"`
}

// UpdatePostRequest 编辑帖子请求
type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required,min=3,max=200"`
	Content string `json:"content" binding:"required,min=10,max=20000"`
	Name    string `json:"name" binding:"omitempty,min=2,max=100"`
	Avatar  string `json:"avatar" binding:"omitempty,url"`
}

// DeletePostResult 删除帖子结果
type DeletePostResult struct {
	PostID   string        `json:"postId"`
	Comments *DeleteReport `json:"comments"`
}

// PostList 帖子列表响应，上游不返回总数，用 HasMore 提示是否还有下一页
type PostList struct {
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
	Order   string       `json:"order"`
	HasMore bool         `json:"hasMore"`
	Items   []model.Post `json:"items"`
}
