package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultName 删除重试队列的默认名称
const DefaultName = "comment_delete_retry"

type Queue struct {
	client    *redis.Client
	queueName string
}

// RetryMessage 级联删除中失败的单条评论
type RetryMessage struct {
	PostID    string `json:"postId"`
	CommentID string `json:"commentId"`
	Attempt   int    `json:"attempt"`
	LastError string `json:"lastError,omitempty"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	if queueName == "" {
		queueName = DefaultName
	}
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Name 队列名
func (q *Queue) Name() string {
	return q.queueName
}

// Push 将任务加入队列
func (q *Queue) Push(ctx context.Context, msg *RetryMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取任务（阻塞）
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*RetryMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无任务
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg RetryMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
