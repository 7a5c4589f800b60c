package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/model"
	"github.com/qs3c/postboard_go_server/internal/model/dto"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
	"github.com/qs3c/postboard_go_server/internal/upstream"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrInvalidContent = errors.New("content must not be blank")
	ErrUpstream       = errors.New("upstream request failed")
)

// upstreamError 将上游 404 映射为 notFound，其余错误包装为 ErrUpstream
func upstreamError(err, notFound error) error {
	if err == nil {
		return nil
	}
	if upstream.IsNotFound(err) {
		return notFound
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

type PostService struct {
	api       *upstream.Client
	cache     *cache.Cache
	resolver  *cascade.Resolver
	notifier  Notifier
	sanitizer *Sanitizer
}

func NewPostService(
	api *upstream.Client,
	c *cache.Cache,
	resolver *cascade.Resolver,
	notifier Notifier,
) *PostService {
	return &PostService{
		api:       api,
		cache:     c,
		resolver:  resolver,
		notifier:  notifier,
		sanitizer: NewSanitizer(),
	}
}

// List 获取帖子列表
func (s *PostService) List(ctx context.Context, req *dto.ListPostsRequest) (*dto.PostList, error) {
	params := upstream.ListPostsParams{Page: req.Page, Limit: req.Limit, Order: req.Order}.Normalize()

	var posts []model.Post
	key := cache.PostsKey(params.Order, params.Page, params.Limit)
	err := s.cache.Aside(ctx, key, &posts, s.cache.TTL().Posts, func() (err error) {
		posts, err = s.api.ListPosts(ctx, params)
		return err
	})
	if err != nil {
		return nil, upstreamError(err, ErrPostNotFound)
	}

	return &dto.PostList{
		Page:    params.Page,
		Limit:   params.Limit,
		Order:   params.Order,
		HasMore: len(posts) >= params.Limit,
		Items:   posts,
	}, nil
}

// Get 获取帖子详情
func (s *PostService) Get(ctx context.Context, postID string) (*model.Post, error) {
	var post model.Post
	err := s.cache.Aside(ctx, cache.PostKey(postID), &post, s.cache.TTL().Post, func() error {
		p, err := s.api.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		post = *p
		return nil
	})
	if err != nil {
		return nil, upstreamError(err, ErrPostNotFound)
	}
	return &post, nil
}

// Create 创建帖子
func (s *PostService) Create(ctx context.Context, req *dto.CreatePostRequest) (*model.Post, error) {
	in, err := s.postInput(req.Title, req.Content, req.Name, req.Avatar)
	if err != nil {
		return nil, err
	}

	post, err := s.api.CreatePost(ctx, in)
	if err != nil {
		return nil, upstreamError(err, ErrPostNotFound)
	}

	s.cache.InvalidatePosts(ctx)
	notify(ctx, s.notifier, &pubsub.Notice{Event: pubsub.EventPostCreated, PostID: post.ID})
	return post, nil
}

// Update 编辑帖子
func (s *PostService) Update(ctx context.Context, postID string, req *dto.UpdatePostRequest) (*model.Post, error) {
	in, err := s.postInput(req.Title, req.Content, req.Name, req.Avatar)
	if err != nil {
		return nil, err
	}

	post, err := s.api.UpdatePost(ctx, postID, in)
	if err != nil {
		return nil, upstreamError(err, ErrPostNotFound)
	}

	s.cache.InvalidatePost(ctx, postID)
	notify(ctx, s.notifier, &pubsub.Notice{Event: pubsub.EventPostUpdated, PostID: postID})
	return post, nil
}

// Delete 先删除帖子下全部评论（失败不阻断），再删除帖子本身。
// 一旦开始即不受请求取消影响。
func (s *PostService) Delete(ctx context.Context, postID string) (*dto.DeletePostResult, error) {
	ctx = context.WithoutCancel(ctx)

	report := s.resolver.DeleteAll(ctx, postID)
	s.cache.InvalidateComments(ctx, postID)

	if err := s.api.DeletePost(ctx, postID); err != nil {
		return nil, upstreamError(err, ErrPostNotFound)
	}

	s.cache.RemovePost(ctx, postID)
	notify(ctx, s.notifier, &pubsub.Notice{Event: pubsub.EventPostDeleted, PostID: postID})

	return &dto.DeletePostResult{
		PostID:   postID,
		Comments: toDeleteReport(report),
	}, nil
}

func (s *PostService) postInput(title, content, name, avatar string) (*upstream.PostInput, error) {
	in := &upstream.PostInput{Avatar: avatar, Name: s.sanitizer.Text(name)}

	var err error
	if in.Title, err = s.sanitizer.Required(title); err != nil {
		return nil, err
	}
	if in.Content, err = s.sanitizer.Required(content); err != nil {
		return nil, err
	}
	return in, nil
}
