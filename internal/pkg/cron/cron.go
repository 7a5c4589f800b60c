package cron

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/commenttree"
	"github.com/qs3c/postboard_go_server/internal/upstream"
)

const (
	DefaultInterval = time.Hour
	DefaultPageSize = 50
)

// SweepResult 一次孤儿评论清理的统计
type SweepResult struct {
	PostsScanned int  `json:"postsScanned"`
	OrphansFound int  `json:"orphansFound"`
	Deleted      int  `json:"deleted"`
	Failed       int  `json:"failed"`
	DryRun       bool `json:"dryRun"`
}

// Service 定期清理父评论已不存在的孤儿评论（连同其回复）
type Service struct {
	api      *upstream.Client
	resolver *cascade.Resolver
	interval time.Duration
	pageSize int
	dryRun   bool
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewService(
	api *upstream.Client,
	resolver *cascade.Resolver,
	interval time.Duration,
	pageSize int,
	dryRun bool,
) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		api:      api,
		resolver: resolver,
		interval: interval,
		pageSize: pageSize,
		dryRun:   dryRun,
		stopChan: make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runSweep()
	log.Printf("Cron service started (orphan sweep every %s, dry_run=%v)", s.interval, s.dryRun)
}

// Stop 停止定时任务，可重复调用
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		log.Println("Cron service stopped")
	})
}

func (s *Service) runSweep() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			if _, err := s.RunNow(ctx); err != nil {
				log.Printf("Orphan sweep failed: %v", err)
			}
			cancel()
		}
	}
}

// RunNow 立即执行一次清理。列帖子失败时返回错误，单个帖子的失败只记录日志
func (s *Service) RunNow(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{DryRun: s.dryRun}

	for page := 1; ; page++ {
		posts, err := s.api.ListPosts(ctx, upstream.ListPostsParams{
			Page:  page,
			Limit: s.pageSize,
			Order: upstream.OrderOldest,
		})
		if err != nil {
			return result, err
		}

		for _, post := range posts {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			result.PostsScanned++
			s.sweepPost(ctx, post.ID, result)
		}

		if len(posts) < s.pageSize {
			break
		}
	}

	if result.OrphansFound > 0 {
		log.Printf("Orphan sweep summary: posts=%d, orphans=%d, deleted=%d, failed=%d, dry_run=%v",
			result.PostsScanned, result.OrphansFound, result.Deleted, result.Failed, result.DryRun)
	}
	return result, nil
}

func (s *Service) sweepPost(ctx context.Context, postID string, result *SweepResult) {
	comments, err := s.api.ListComments(ctx, postID)
	if err != nil {
		log.Printf("Orphan sweep: failed to list comments of post %s: %v", postID, err)
		return
	}

	orphans := commenttree.Orphans(comments)
	result.OrphansFound += len(orphans)

	for _, orphan := range orphans {
		if s.dryRun {
			log.Printf("Orphan sweep (dry run): would delete comment %s of post %s and %d replies",
				orphan.ID, postID, len(cascade.Closure(comments, orphan.ID))-1)
			continue
		}

		report, err := s.resolver.DeleteWithDescendants(ctx, postID, orphan.ID)
		if err != nil {
			log.Printf("Orphan sweep: failed to delete comment %s of post %s: %v", orphan.ID, postID, err)
			result.Failed++
			continue
		}
		result.Deleted += len(report.Deleted)
		result.Failed += len(report.Failed)
	}
}
