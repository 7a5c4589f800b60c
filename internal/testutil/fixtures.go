package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/model"
)

// 固定起点 + 递增秒数，保证 fixture 的创建顺序即时间顺序
var (
	baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick     atomic.Int64
)

// NextTime 返回下一个递增的测试时间
func NextTime() time.Time {
	return baseTime.Add(time.Duration(tick.Add(1)) * time.Second)
}

// TestPost 创建测试帖子
func TestPost(t *testing.T, db *gorm.DB, opts ...func(*model.PostRecord)) *model.PostRecord {
	t.Helper()

	post := &model.PostRecord{
		ID:        uuid.NewString(),
		Title:     fmt.Sprintf("Test Post %d", tick.Load()%10000),
		Content:   "Some test post content",
		Name:      "tester",
		Avatar:    "https://example.com/avatar.jpg",
		CreatedAt: NextTime(),
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// WithTitle 设置标题
func WithTitle(title string) func(*model.PostRecord) {
	return func(p *model.PostRecord) {
		p.Title = title
	}
}

// WithPostCreatedAt 设置帖子创建时间
func WithPostCreatedAt(at time.Time) func(*model.PostRecord) {
	return func(p *model.PostRecord) {
		p.CreatedAt = at
	}
}

// TestComment 创建一级评论
func TestComment(t *testing.T, db *gorm.DB, postID, content string, opts ...func(*model.CommentRecord)) *model.CommentRecord {
	t.Helper()

	comment := &model.CommentRecord{
		ID:        uuid.NewString(),
		PostID:    postID,
		Content:   content,
		Name:      "commenter",
		Avatar:    "https://example.com/c.jpg",
		CreatedAt: NextTime(),
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建回复
func TestReply(t *testing.T, db *gorm.DB, postID, parentID, content string) *model.CommentRecord {
	t.Helper()

	return TestComment(t, db, postID, content, WithParent(parentID))
}

// WithParent 设置父评论
func WithParent(parentID string) func(*model.CommentRecord) {
	return func(c *model.CommentRecord) {
		c.ParentID = &parentID
	}
}

// WithCommentCreatedAt 设置评论创建时间
func WithCommentCreatedAt(at time.Time) func(*model.CommentRecord) {
	return func(c *model.CommentRecord) {
		c.CreatedAt = at
	}
}
