// Package cascade 删除一条评论及其全部后代回复，或删除帖子下的所有评论。
//
// 删除严格按顺序逐条执行，单条失败只记录日志并继续，不会中断剩余的删除。
package cascade

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/qs3c/postboard_go_server/internal/model"
)

// ErrFetch 拉取评论列表失败
var ErrFetch = errors.New("cascade: fetch comments failed")

// Fetcher 拉取帖子下的全部扁平评论
type Fetcher interface {
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
}

// Deleter 删除单条评论
type Deleter interface {
	DeleteComment(ctx context.Context, postID, commentID string) error
}

// FetchFunc 函数适配 Fetcher
type FetchFunc func(ctx context.Context, postID string) ([]model.Comment, error)

func (f FetchFunc) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	return f(ctx, postID)
}

// DeleteFunc 函数适配 Deleter
type DeleteFunc func(ctx context.Context, postID, commentID string) error

func (f DeleteFunc) DeleteComment(ctx context.Context, postID, commentID string) error {
	return f(ctx, postID, commentID)
}

// FailureHook 单条删除失败时回调（例如投递到重试队列）
type FailureHook func(postID, commentID string, err error)

// Failure 单条删除失败记录
type Failure struct {
	CommentID string
	Err       error
}

// Report 一次批量删除的结果
type Report struct {
	PostID    string
	TargetID  string
	Attempted int
	Deleted   []string
	Failed    []Failure
}

// Err 汇总失败信息，全部成功时返回 nil。仅用于展示，不代表操作失败
func (r *Report) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("comment %s: %w", f.CommentID, f.Err))
	}
	return errors.Join(errs...)
}

// Resolver 级联删除执行器
type Resolver struct {
	fetcher   Fetcher
	deleter   Deleter
	onFailure FailureHook
}

// NewResolver 创建执行器
func NewResolver(fetcher Fetcher, deleter Deleter) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		deleter: deleter,
	}
}

// WithFailureHook 设置单条失败回调
func (r *Resolver) WithFailureHook(hook FailureHook) *Resolver {
	r.onFailure = hook
	return r
}

// Closure 返回 targetID 及其所有后代评论，保持原始拉取顺序。
// 使用 visited 集合做广度优先遍历，数据中存在环时也能终止。
func Closure(comments []model.Comment, targetID string) []model.Comment {
	children := make(map[string][]string, len(comments))
	for _, c := range comments {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	visited := map[string]struct{}{targetID: {}}
	queue := []string{targetID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, childID := range children[current] {
			if _, ok := visited[childID]; ok {
				continue
			}
			visited[childID] = struct{}{}
			queue = append(queue, childID)
		}
	}

	result := make([]model.Comment, 0, len(visited))
	for _, c := range comments {
		if _, ok := visited[c.ID]; ok {
			result = append(result, c)
		}
	}
	return result
}

// DeleteWithDescendants 删除 targetID 及其全部后代。
// 拉取评论失败时返回错误；单条删除失败只记录在 Report 中，不返回错误。
func (r *Resolver) DeleteWithDescendants(ctx context.Context, postID, targetID string) (*Report, error) {
	report := &Report{PostID: postID, TargetID: targetID}

	comments, err := r.fetcher.ListComments(ctx, postID)
	if err != nil {
		log.Printf("Cascade delete: failed to fetch comments of post %s: %v", postID, err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if len(comments) == 0 {
		return report, nil
	}

	r.deleteSequential(ctx, report, Closure(comments, targetID))
	return report, nil
}

// DeleteAll 删除帖子下的所有评论。拉取失败也只记录日志，返回空结果
func (r *Resolver) DeleteAll(ctx context.Context, postID string) *Report {
	report := &Report{PostID: postID}

	comments, err := r.fetcher.ListComments(ctx, postID)
	if err != nil {
		log.Printf("Delete all comments: failed to fetch comments of post %s: %v", postID, err)
		return report
	}

	if len(comments) == 0 {
		return report
	}

	r.deleteSequential(ctx, report, comments)
	return report
}

// deleteSequential 逐条删除；ctx 只在两条之间检查，不会打断进行中的请求
func (r *Resolver) deleteSequential(ctx context.Context, report *Report, targets []model.Comment) {
	for i, c := range targets {
		if err := ctx.Err(); err != nil {
			log.Printf("Cascade delete on post %s stopped after %d of %d comments: %v",
				report.PostID, i, len(targets), err)
			return
		}

		report.Attempted++
		if err := r.deleter.DeleteComment(ctx, report.PostID, c.ID); err != nil {
			log.Printf("Warning: failed to delete comment %s of post %s: %v", c.ID, report.PostID, err)
			report.Failed = append(report.Failed, Failure{CommentID: c.ID, Err: err})
			if r.onFailure != nil {
				r.onFailure(report.PostID, c.ID, err)
			}
			continue
		}
		report.Deleted = append(report.Deleted, c.ID)
	}
}
