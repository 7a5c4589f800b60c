package model

// Comment 外部 API 返回的扁平评论
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId,omitempty"`
	Content   string    `json:"content"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt Timestamp `json:"createdAt"`
	ParentID  *string   `json:"parentId"`
}

// IsRoot 是否为一级评论
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// CommentNode 评论树节点，Replies 为直接子评论
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}
