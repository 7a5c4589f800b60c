package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
	"github.com/qs3c/postboard_go_server/internal/pkg/queue"
	"github.com/qs3c/postboard_go_server/internal/upstream"
)

// DefaultMaxAttempts 单条评论最多尝试删除的次数（包括级联删除时的第一次）
const DefaultMaxAttempts = 3

const (
	popTimeout     = 5 * time.Second
	requeueTimeout = 3 * time.Second
)

// Publisher 通知发布者
type Publisher interface {
	Publish(ctx context.Context, n *pubsub.Notice) error
}

// EnqueueFailures 返回级联删除的失败回调，把失败的评论投递到重试队列
func EnqueueFailures(q *queue.Queue) cascade.FailureHook {
	return func(postID, commentID string, err error) {
		ctx, cancel := context.WithTimeout(context.Background(), requeueTimeout)
		defer cancel()

		msg := &queue.RetryMessage{
			PostID:    postID,
			CommentID: commentID,
			Attempt:   1,
			LastError: err.Error(),
		}
		if pushErr := q.Push(ctx, msg); pushErr != nil {
			log.Printf("Failed to enqueue retry for comment %s of post %s: %v", commentID, postID, pushErr)
		}
	}
}

// Retrier 消费重试队列，重新删除级联删除中失败的评论
type Retrier struct {
	queue       *queue.Queue
	deleter     cascade.Deleter
	cache       *cache.Cache
	publisher   Publisher
	maxAttempts int
}

// NewRetrier 创建重试器；cache 与 publisher 可以为 nil
func NewRetrier(q *queue.Queue, deleter cascade.Deleter, c *cache.Cache, publisher Publisher, maxAttempts int) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Retrier{
		queue:       q,
		deleter:     deleter,
		cache:       c,
		publisher:   publisher,
		maxAttempts: maxAttempts,
	}
}

// Process 再次尝试删除。成功或上游已不存在该评论时视为完成；
// 否则在未达到最大次数前重新入队。worker 退出导致的失败不计入次数，消息原样放回队列。
func (r *Retrier) Process(ctx context.Context, msg *queue.RetryMessage) error {
	attempt := msg.Attempt + 1

	err := r.deleter.DeleteComment(ctx, msg.PostID, msg.CommentID)

	// 入队、清缓存和通知不受 worker 退出影响
	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requeueTimeout)
	defer cancel()

	if err != nil && ctx.Err() != nil {
		if pushErr := r.queue.Push(bgCtx, msg); pushErr != nil {
			return fmt.Errorf("failed to return comment %s to queue: %w", msg.CommentID, pushErr)
		}
		log.Printf("Retry of comment %s of post %s interrupted, returned to queue", msg.CommentID, msg.PostID)
		return nil
	}

	if err == nil || upstream.IsNotFound(err) {
		log.Printf("Retry %d: comment %s of post %s removed", attempt, msg.CommentID, msg.PostID)
		r.cache.InvalidateComments(bgCtx, msg.PostID)
		r.publish(bgCtx, &pubsub.Notice{
			Event:     pubsub.EventCommentDeleted,
			PostID:    msg.PostID,
			CommentID: msg.CommentID,
		})
		return nil
	}

	if attempt >= r.maxAttempts {
		r.publish(bgCtx, &pubsub.Notice{
			Type:      pubsub.TypeError,
			Event:     pubsub.EventCommentDeleted,
			PostID:    msg.PostID,
			CommentID: msg.CommentID,
			Message:   "Comment could not be deleted",
		})
		return fmt.Errorf("giving up on comment %s after %d attempts: %w", msg.CommentID, attempt, err)
	}

	next := &queue.RetryMessage{
		PostID:    msg.PostID,
		CommentID: msg.CommentID,
		Attempt:   attempt,
		LastError: err.Error(),
	}
	if pushErr := r.queue.Push(bgCtx, next); pushErr != nil {
		return fmt.Errorf("failed to requeue comment %s: %w", msg.CommentID, pushErr)
	}
	log.Printf("Retry %d: comment %s of post %s failed, requeued: %v", attempt, msg.CommentID, msg.PostID, err)
	return nil
}

// Run 启动 workers 个消费协程，阻塞直到 ctx 取消
func (r *Retrier) Run(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := r.queue.Pop(ctx, popTimeout)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop retry: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					if err := r.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: %v", workerID, err)
					}
				}
			}
		}(i)
	}
	wg.Wait()
}

func (r *Retrier) publish(ctx context.Context, n *pubsub.Notice) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, n); err != nil {
		log.Printf("Failed to publish retry notice: %v", err)
	}
}
