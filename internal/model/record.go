package model

import (
	"time"
)

// PostRecord mock 上游的帖子表
type PostRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Title     string    `gorm:"size:200;not null"`
	Content   string    `gorm:"type:text;not null"`
	Name      string    `gorm:"size:100"`
	Avatar    string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (PostRecord) TableName() string {
	return "posts"
}

// ToPost 转换为 API 结构
func (r *PostRecord) ToPost() *Post {
	return &Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Name:      r.Name,
		Avatar:    r.Avatar,
		CreatedAt: NewTimestamp(r.CreatedAt),
	}
}

// CommentRecord mock 上游的评论表
type CommentRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	PostID    string    `gorm:"size:64;not null;index"`
	ParentID  *string   `gorm:"size:64;index"`
	Content   string    `gorm:"type:text;not null"`
	Name      string    `gorm:"size:100"`
	Avatar    string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (CommentRecord) TableName() string {
	return "comments"
}

// ToComment 转换为 API 结构
func (r *CommentRecord) ToComment() Comment {
	return Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		ParentID:  r.ParentID,
		Content:   r.Content,
		Name:      r.Name,
		Avatar:    r.Avatar,
		CreatedAt: NewTimestamp(r.CreatedAt),
	}
}
