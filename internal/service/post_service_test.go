package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/model"
	"github.com/qs3c/postboard_go_server/internal/model/dto"
	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
	"github.com/qs3c/postboard_go_server/internal/testutil"
)

func TestPostService_List(t *testing.T) {
	env := setupServices(t, nil)
	ctx := context.Background()

	first := testutil.TestPost(t, env.db, testutil.WithTitle("first"))
	testutil.TestPost(t, env.db, testutil.WithTitle("second"))
	last := testutil.TestPost(t, env.db, testutil.WithTitle("third"))

	t.Run("newest first by default", func(t *testing.T) {
		list, err := env.posts.List(ctx, &dto.ListPostsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 10, list.Limit)
		assert.Equal(t, "newest", list.Order)
		assert.False(t, list.HasMore)
		require.Len(t, list.Items, 3)
		assert.Equal(t, last.ID, list.Items[0].ID)
	})

	t.Run("oldest first", func(t *testing.T) {
		list, err := env.posts.List(ctx, &dto.ListPostsRequest{Page: 1, Limit: 2, Order: "oldest"})
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.Equal(t, first.ID, list.Items[0].ID)
		assert.True(t, list.HasMore)
	})

	t.Run("served from cache until invalidated", func(t *testing.T) {
		assert.True(t, env.mr.Exists(cache.PostsKey("newest", 1, 10)))

		testutil.TestPost(t, env.db, testutil.WithTitle("sneaky"))
		list, err := env.posts.List(ctx, &dto.ListPostsRequest{})
		require.NoError(t, err)
		assert.Len(t, list.Items, 3)

		_, err = env.posts.Create(ctx, &dto.CreatePostRequest{
			Title:   "through service",
			Content: "a body that is long enough",
			Name:    "ana",
		})
		require.NoError(t, err)

		list, err = env.posts.List(ctx, &dto.ListPostsRequest{})
		require.NoError(t, err)
		assert.Len(t, list.Items, 5)
	})
}

func TestPostService_Get(t *testing.T) {
	env := setupServices(t, nil)
	ctx := context.Background()

	post := testutil.TestPost(t, env.db, testutil.WithTitle("hello"))

	got, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)
	assert.True(t, env.mr.Exists(cache.PostKey(post.ID)))

	_, err = env.posts.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Create(t *testing.T) {
	env := setupServices(t, nil)
	ctx := context.Background()

	post, err := env.posts.Create(ctx, &dto.CreatePostRequest{
		Title:   "<b>Bold</b> title",
		Content: "content with <script>alert(1)</script>text",
		Name:    "ana",
		Avatar:  "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "Bold title", post.Title)
	assert.NotContains(t, post.Content, "<script>")
	assert.Equal(t, "https://example.com/a.png", post.Avatar)

	n := env.notifier.last()
	assert.Equal(t, pubsub.EventPostCreated, n.Event)
	assert.Equal(t, post.ID, n.PostID)

	_, err = env.posts.Create(ctx, &dto.CreatePostRequest{Title: "<i></i>", Content: "body body body", Name: "ana"})
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestPostService_Update(t *testing.T) {
	env := setupServices(t, nil)
	ctx := context.Background()

	post := testutil.TestPost(t, env.db, testutil.WithTitle("before"))
	_, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)

	updated, err := env.posts.Update(ctx, post.ID, &dto.UpdatePostRequest{Title: "after", Content: "new content body"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "tester", updated.Name)
	assert.False(t, env.mr.Exists(cache.PostKey(post.ID)))

	got, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)

	_, err = env.posts.Update(ctx, "missing", &dto.UpdatePostRequest{Title: "after", Content: "new content body"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Delete(t *testing.T) {
	env := setupServices(t, nil)
	ctx := context.Background()

	post := testutil.TestPost(t, env.db)
	root := testutil.TestComment(t, env.db, post.ID, "root")
	testutil.TestReply(t, env.db, post.ID, root.ID, "reply")
	testutil.TestComment(t, env.db, post.ID, "another root")
	other := testutil.TestPost(t, env.db)
	testutil.TestComment(t, env.db, other.ID, "elsewhere")

	_, err := env.comments.Tree(ctx, post.ID)
	require.NoError(t, err)

	result, err := env.posts.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, result.PostID)
	assert.Equal(t, 3, result.Comments.Attempted)
	assert.Len(t, result.Comments.Deleted, 3)
	assert.Empty(t, result.Comments.Failed)

	var remaining int64
	env.db.Model(&model.CommentRecord{}).Count(&remaining)
	assert.Equal(t, int64(1), remaining)

	_, err = env.posts.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.False(t, env.mr.Exists(cache.CommentsKey(post.ID)))
	assert.Equal(t, pubsub.EventPostDeleted, env.notifier.last().Event)
}

func TestPostService_DeleteMissing(t *testing.T) {
	env := setupServices(t, nil)

	_, err := env.posts.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_UpstreamDown(t *testing.T) {
	env := setupBrokenUpstream(t)
	ctx := context.Background()

	_, err := env.posts.List(ctx, &dto.ListPostsRequest{})
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = env.posts.Get(ctx, "p1")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = env.posts.Delete(ctx, "p1")
	assert.ErrorIs(t, err, ErrUpstream)
}
