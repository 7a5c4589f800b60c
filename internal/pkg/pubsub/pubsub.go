package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelBoardEvents = "board_events"
)

// 通知类型
const (
	TypeSuccess = "success"
	TypeError   = "error"
)

// 事件名
const (
	EventPostCreated     = "post_created"
	EventPostUpdated     = "post_updated"
	EventPostDeleted     = "post_deleted"
	EventCommentCreated  = "comment_created"
	EventCommentUpdated  = "comment_updated"
	EventCommentDeleted  = "comment_deleted"
	EventCommentsCleared = "comments_cleared"
)

// 事件对应的默认消息
var EventMessages = map[string]string{
	EventPostCreated:     "Post created",
	EventPostUpdated:     "Post updated",
	EventPostDeleted:     "Post deleted",
	EventCommentCreated:  "Comment added",
	EventCommentUpdated:  "Comment updated",
	EventCommentDeleted:  "Comment deleted",
	EventCommentsCleared: "All comments deleted",
}

// Notice 面向浏览器的操作通知
type Notice struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	PostID    string `json:"postId,omitempty"`
	CommentID string `json:"commentId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布通知
func (p *Publisher) Publish(ctx context.Context, n *Notice) error {
	if n.Type == "" {
		n.Type = TypeSuccess
	}
	if n.Message == "" && n.Type == TypeSuccess {
		n.Message = EventMessages[n.Event]
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	return p.client.Publish(ctx, ChannelBoardEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅通知，阻塞直到 ctx 结束
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*Notice)) error {
	sub := s.client.Subscribe(ctx, ChannelBoardEvents)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var n Notice
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				continue // 忽略解析错误
			}

			handler(&n)
		}
	}
}
