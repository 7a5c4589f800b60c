package service

import (
	"context"
	"log"

	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
)

// Notifier 发布操作通知，*pubsub.Publisher 即为实现
type Notifier interface {
	Publish(ctx context.Context, n *pubsub.Notice) error
}

// NopNotifier 不发送任何通知
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, *pubsub.Notice) error { return nil }

func notify(ctx context.Context, n Notifier, notice *pubsub.Notice) {
	if n == nil {
		return
	}
	if err := n.Publish(context.WithoutCancel(ctx), notice); err != nil {
		log.Printf("Failed to publish %s notice for post %s: %v", notice.Event, notice.PostID, err)
	}
}
