package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/model"
	"github.com/qs3c/postboard_go_server/internal/model/dto"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/commenttree"
	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
	"github.com/qs3c/postboard_go_server/internal/upstream"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrParentNotFound  = errors.New("parent comment not found")
)

type CommentService struct {
	api       *upstream.Client
	cache     *cache.Cache
	resolver  *cascade.Resolver
	notifier  Notifier
	sanitizer *Sanitizer
}

func NewCommentService(
	api *upstream.Client,
	c *cache.Cache,
	resolver *cascade.Resolver,
	notifier Notifier,
) *CommentService {
	return &CommentService{
		api:       api,
		cache:     c,
		resolver:  resolver,
		notifier:  notifier,
		sanitizer: NewSanitizer(),
	}
}

// Tree 获取帖子的评论树
func (s *CommentService) Tree(ctx context.Context, postID string) (*dto.CommentTree, error) {
	var comments []model.Comment
	err := s.cache.Aside(ctx, cache.CommentsKey(postID), &comments, s.cache.TTL().Comments, func() (err error) {
		comments, err = s.api.ListComments(ctx, postID)
		return err
	})
	if err != nil {
		return nil, upstreamError(err, ErrPostNotFound)
	}

	forest := commenttree.Build(comments)
	return &dto.CommentTree{
		PostID: postID,
		Total:  len(comments),
		Shown:  commenttree.Count(forest),
		Depth:  commenttree.Depth(forest),
		Items:  forest,
	}, nil
}

// Create 发表评论；回复时父评论必须属于同一帖子
func (s *CommentService) Create(ctx context.Context, postID string, req *dto.CreateCommentRequest) (*model.Comment, error) {
	content, err := s.sanitizer.Required(req.Content)
	if err != nil {
		return nil, err
	}
	in := &upstream.CommentInput{
		Content: content,
		Name:    s.sanitizer.Text(req.Name),
		Avatar:  req.Avatar,
	}

	if req.ParentID != nil && *req.ParentID != "" {
		if err := s.ensureParent(ctx, postID, *req.ParentID); err != nil {
			return nil, err
		}
		in.ParentID = req.ParentID
	}

	comment, err := s.api.CreateComment(ctx, postID, in)
	if err != nil {
		return nil, upstreamError(err, ErrPostNotFound)
	}

	s.cache.InvalidateComments(ctx, postID)
	notify(ctx, s.notifier, &pubsub.Notice{
		Event:     pubsub.EventCommentCreated,
		PostID:    postID,
		CommentID: comment.ID,
	})
	return comment, nil
}

// ensureParent 用最新的评论列表校验父评论，不走缓存
func (s *CommentService) ensureParent(ctx context.Context, postID, parentID string) error {
	comments, err := s.api.ListComments(ctx, postID)
	if err != nil {
		return upstreamError(err, ErrPostNotFound)
	}
	for _, c := range comments {
		if c.ID == parentID {
			return nil
		}
	}
	return ErrParentNotFound
}

// Update 编辑评论
func (s *CommentService) Update(ctx context.Context, postID, commentID string, req *dto.UpdateCommentRequest) (*model.Comment, error) {
	content, err := s.sanitizer.Required(req.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.api.UpdateComment(ctx, postID, commentID, &upstream.CommentPatch{
		Content: content,
		Name:    s.sanitizer.Text(req.Name),
		Avatar:  req.Avatar,
	})
	if err != nil {
		return nil, upstreamError(err, ErrCommentNotFound)
	}

	s.cache.InvalidateComments(ctx, postID)
	notify(ctx, s.notifier, &pubsub.Notice{
		Event:     pubsub.EventCommentUpdated,
		PostID:    postID,
		CommentID: commentID,
	})
	return comment, nil
}

// Delete 删除评论及其全部回复。拉取评论失败时返回错误，单条删除失败记录在结果中
func (s *CommentService) Delete(ctx context.Context, postID, commentID string) (*dto.DeleteReport, error) {
	ctx = context.WithoutCancel(ctx)

	report, err := s.resolver.DeleteWithDescendants(ctx, postID, commentID)
	if err != nil {
		notify(ctx, s.notifier, &pubsub.Notice{
			Type:      pubsub.TypeError,
			Event:     pubsub.EventCommentDeleted,
			PostID:    postID,
			CommentID: commentID,
			Message:   "Failed to delete comment",
		})
		return nil, upstreamError(err, ErrPostNotFound)
	}

	s.cache.InvalidateComments(ctx, postID)
	notify(ctx, s.notifier, deleteNotice(pubsub.EventCommentDeleted, commentID, report))
	return toDeleteReport(report), nil
}

// DeleteAll 删除帖子下全部评论，任何失败都不会返回错误
func (s *CommentService) DeleteAll(ctx context.Context, postID string) *dto.DeleteReport {
	ctx = context.WithoutCancel(ctx)

	report := s.resolver.DeleteAll(ctx, postID)
	s.cache.InvalidateComments(ctx, postID)
	notify(ctx, s.notifier, deleteNotice(pubsub.EventCommentsCleared, "", report))
	return toDeleteReport(report)
}

func deleteNotice(event, commentID string, report *cascade.Report) *pubsub.Notice {
	n := &pubsub.Notice{Event: event, PostID: report.PostID, CommentID: commentID}
	if len(report.Failed) > 0 {
		n.Type = pubsub.TypeError
		n.Message = fmt.Sprintf("%d of %d comments could not be deleted", len(report.Failed), report.Attempted)
	}
	return n
}

func toDeleteReport(r *cascade.Report) *dto.DeleteReport {
	out := &dto.DeleteReport{
		PostID:    r.PostID,
		TargetID:  r.TargetID,
		Attempted: r.Attempted,
		Deleted:   make([]string, 0, len(r.Deleted)),
		Failed:    make([]dto.DeleteFailure, 0, len(r.Failed)),
	}
	out.Deleted = append(out.Deleted, r.Deleted...)
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, dto.DeleteFailure{CommentID: f.CommentID, Error: f.Err.Error()})
	}
	return out
}
