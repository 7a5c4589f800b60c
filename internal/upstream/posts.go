package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/qs3c/postboard_go_server/internal/model"
)

const (
	OrderNewest = "newest"
	OrderOldest = "oldest"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListPostsParams 帖子列表参数
type ListPostsParams struct {
	Page  int
	Limit int
	Order string
}

// Normalize 补齐默认值，limit 不超过 MaxLimit
func (p ListPostsParams) Normalize() ListPostsParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Order != OrderOldest {
		p.Order = OrderNewest
	}
	return p
}

// Query 生成上游查询串：newest => order=desc，oldest => order=asc
func (p ListPostsParams) Query() url.Values {
	p = p.Normalize()
	order := "desc"
	if p.Order == OrderOldest {
		order = "asc"
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("sortBy", "createdAt")
	q.Set("order", order)
	return q
}

// PostInput 创建/更新帖子的请求体
type PostInput struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

// ListPosts 获取帖子列表
func (c *Client) ListPosts(ctx context.Context, params ListPostsParams) ([]model.Post, error) {
	var posts []model.Post
	if err := c.do(ctx, "GET", "/post?"+params.Query().Encode(), nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// GetPost 获取单个帖子
func (c *Client) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, "GET", postPath(postID), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost 创建帖子
func (c *Client) CreatePost(ctx context.Context, in *PostInput) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, "POST", "/post", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost 更新帖子
func (c *Client) UpdatePost(ctx context.Context, postID string, in *PostInput) (*model.Post, error) {
	var post model.Post
	if err := c.do(ctx, "PUT", postPath(postID), in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost 删除帖子（不会删除评论）
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, "DELETE", postPath(postID), nil, nil)
}

func postPath(postID string) string {
	return "/post/" + url.PathEscape(postID)
}
