package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
	"github.com/qs3c/postboard_go_server/internal/testutil"
	"github.com/qs3c/postboard_go_server/internal/testutil/upstreamtest"
	"github.com/qs3c/postboard_go_server/internal/upstream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []pubsub.Notice
}

func (r *recordingNotifier) Publish(_ context.Context, n *pubsub.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, *n)
	return nil
}

func (r *recordingNotifier) last() pubsub.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return pubsub.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	api      *upstream.Client
	notifier *recordingNotifier
	posts    *PostService
	comments *CommentService
}

// setupServices 基于 mockapi 与 miniredis 组装服务；deleter 为 nil 时直接使用上游客户端
func setupServices(t *testing.T, deleter cascade.Deleter) *testEnv {
	t.Helper()

	srv, db := upstreamtest.NewServer(t)
	rdb, mr := testutil.SetupTestRedis(t)

	api := upstream.NewClient(srv.URL, 5*time.Second)
	if deleter == nil {
		deleter = api
	}
	return newTestEnv(db, mr, api, cache.New(rdb, cache.TTLs{}), deleter)
}

func newTestEnv(db *gorm.DB, mr *miniredis.Miniredis, api *upstream.Client, c *cache.Cache, deleter cascade.Deleter) *testEnv {
	notifier := &recordingNotifier{}
	resolver := cascade.NewResolver(api, deleter)
	return &testEnv{
		db:       db,
		mr:       mr,
		api:      api,
		notifier: notifier,
		posts:    NewPostService(api, c, resolver, notifier),
		comments: NewCommentService(api, c, resolver, notifier),
	}
}

// setupBrokenUpstream 所有请求都返回 500 的上游
func setupBrokenUpstream(t *testing.T) *testEnv {
	t.Helper()

	router := gin.New()
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "upstream unavailable")
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	api := upstream.NewClient(srv.URL, time.Second)
	return newTestEnv(nil, nil, api, cache.New(nil, cache.TTLs{}), api)
}
