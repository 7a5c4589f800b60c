package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/response"
	"github.com/qs3c/postboard_go_server/internal/service"
	"github.com/qs3c/postboard_go_server/internal/testutil"
	"github.com/qs3c/postboard_go_server/internal/testutil/upstreamtest"
	"github.com/qs3c/postboard_go_server/internal/upstream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext 本地测试上下文
type testContext struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func setupHandlers(t *testing.T) *testContext {
	t.Helper()

	srv, db := upstreamtest.NewServer(t)
	rdb, _ := testutil.SetupTestRedis(t)

	api := upstream.NewClient(srv.URL, 5*time.Second)
	c := cache.New(rdb, cache.TTLs{})
	resolver := cascade.NewResolver(api, api)

	postHandler := NewPostHandler(service.NewPostService(api, c, resolver, service.NopNotifier{}))
	commentHandler := NewCommentHandler(service.NewCommentService(api, c, resolver, service.NopNotifier{}))

	router := gin.New()
	router.GET("/posts", postHandler.List)
	router.POST("/posts", postHandler.Create)
	router.GET("/posts/:id", postHandler.Get)
	router.PUT("/posts/:id", postHandler.Update)
	router.DELETE("/posts/:id", postHandler.Delete)
	router.GET("/posts/:id/comments", commentHandler.Tree)
	router.POST("/posts/:id/comments", commentHandler.Create)
	router.DELETE("/posts/:id/comments", commentHandler.DeleteAll)
	router.PUT("/posts/:id/comments/:commentId", commentHandler.Update)
	router.DELETE("/posts/:id/comments/:commentId", commentHandler.Delete)

	return &testContext{DB: db, Router: router}
}

func (tc *testContext) do(t *testing.T, method, path string, body interface{}) response.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tc.Router.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	return parseResponse(t, w)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// decodeData 把 resp.Data 重新解码为具体类型
func decodeData(t *testing.T, resp response.Response, out interface{}) {
	t.Helper()

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
