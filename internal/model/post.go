package model

// Post 外部 API 返回的帖子
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt Timestamp `json:"createdAt"`
}
