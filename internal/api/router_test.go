package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/postboard_go_server/config"
	"github.com/qs3c/postboard_go_server/internal/api/handler"
	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/model"
	"github.com/qs3c/postboard_go_server/internal/model/dto"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/response"
	"github.com/qs3c/postboard_go_server/internal/pkg/ws"
	"github.com/qs3c/postboard_go_server/internal/service"
	"github.com/qs3c/postboard_go_server/internal/testutil"
	"github.com/qs3c/postboard_go_server/internal/testutil/upstreamtest"
	"github.com/qs3c/postboard_go_server/internal/upstream"
)

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv, _ := upstreamtest.NewServer(t)
	rdb, _ := testutil.SetupTestRedis(t)

	upstreamAPI := upstream.NewClient(srv.URL, 5*time.Second)
	c := cache.New(rdb, cache.TTLs{})
	resolver := cascade.NewResolver(upstreamAPI, upstreamAPI)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
	}

	router := NewRouter(
		handler.NewPostHandler(service.NewPostService(upstreamAPI, c, resolver, service.NopNotifier{})),
		handler.NewCommentHandler(service.NewCommentService(upstreamAPI, c, resolver, service.NopNotifier{})),
		handler.NewWebSocketHandler(ws.NewHub(), cfg.CORS.AllowedOrigins),
		handler.NewHealthHandler(rdb),
		cfg,
	)
	return router.Setup()
}

func call(t *testing.T, engine *gin.Engine, method, path string, body any, out any) response.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if out != nil && resp.Data != nil {
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return resp
}

func TestRouter_Healthz(t *testing.T) {
	engine := setupEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestRouter_Preflight(t *testing.T) {
	engine := setupEngine(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_PostAndCommentFlow(t *testing.T) {
	engine := setupEngine(t)

	var post model.Post
	resp := call(t, engine, "POST", "/api/v1/posts", dto.CreatePostRequest{
		Title:   "Hello board",
		Content: "first post on the board",
		Name:    "alice",
	}, &post)
	require.Equal(t, response.CodeSuccess, resp.Code)
	require.NotEmpty(t, post.ID)

	var list dto.PostList
	resp = call(t, engine, "GET", "/api/v1/posts?page=1&limit=10&order=newest", nil, &list)
	require.Equal(t, response.CodeSuccess, resp.Code)
	require.Len(t, list.Items, 1)
	assert.Equal(t, post.ID, list.Items[0].ID)

	base := "/api/v1/posts/" + post.ID + "/comments"

	var root model.Comment
	call(t, engine, "POST", base, dto.CreateCommentRequest{Content: "root comment", Name: "bob"}, &root)
	require.NotEmpty(t, root.ID)

	var reply model.Comment
	call(t, engine, "POST", base, dto.CreateCommentRequest{Content: "a reply", Name: "carol", ParentID: &root.ID}, &reply)
	require.NotNil(t, reply.ParentID)

	var other model.Comment
	call(t, engine, "POST", base, dto.CreateCommentRequest{Content: "another root", Name: "dave"}, &other)

	var tree dto.CommentTree
	call(t, engine, "GET", base, nil, &tree)
	assert.Equal(t, 3, tree.Total)
	assert.Equal(t, 2, tree.Depth)
	require.Len(t, tree.Items, 2)

	var report dto.DeleteReport
	resp = call(t, engine, "DELETE", base+"/"+root.ID, nil, &report)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.ElementsMatch(t, []string{root.ID, reply.ID}, report.Deleted)
	assert.Empty(t, report.Failed)

	call(t, engine, "GET", base, nil, &tree)
	assert.Equal(t, 1, tree.Total)
	require.Len(t, tree.Items, 1)
	assert.Equal(t, other.ID, tree.Items[0].ID)

	var deleted dto.DeletePostResult
	resp = call(t, engine, "DELETE", "/api/v1/posts/"+post.ID, nil, &deleted)
	require.Equal(t, response.CodeSuccess, resp.Code)
	assert.Equal(t, []string{other.ID}, deleted.Comments.Deleted)

	resp = call(t, engine, "GET", "/api/v1/posts/"+post.ID, nil, nil)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}
