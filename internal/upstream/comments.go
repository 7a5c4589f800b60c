package upstream

import (
	"context"
	"net/url"

	"github.com/qs3c/postboard_go_server/internal/model"
)

// CommentInput 创建评论的请求体，一级评论显式发送 parentId: null
type CommentInput struct {
	Content  string  `json:"content"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	ParentID *string `json:"parentId"`
}

// CommentPatch 更新评论的请求体，不会改动 parentId
type CommentPatch struct {
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

// ListComments 获取帖子下全部扁平评论
func (c *Client) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.do(ctx, "GET", commentsPath(postID), nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// CreateComment 发表评论或回复
func (c *Client) CreateComment(ctx context.Context, postID string, in *CommentInput) (*model.Comment, error) {
	var comment model.Comment
	if err := c.do(ctx, "POST", commentsPath(postID), in, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment 编辑评论
func (c *Client) UpdateComment(ctx context.Context, postID, commentID string, in *CommentPatch) (*model.Comment, error) {
	var comment model.Comment
	if err := c.do(ctx, "PUT", commentPath(postID, commentID), in, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment 删除单条评论
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.do(ctx, "DELETE", commentPath(postID, commentID), nil, nil)
}

func commentsPath(postID string) string {
	return postPath(postID) + "/comment"
}

func commentPath(postID, commentID string) string {
	return commentsPath(postID) + "/" + url.PathEscape(commentID)
}
