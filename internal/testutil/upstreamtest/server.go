// Package upstreamtest 启动基于 mockapi 的外部 API 测试服务器
package upstreamtest

import (
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/mockapi"
	"github.com/qs3c/postboard_go_server/internal/testutil"
)

// NewServer 返回一个连接内存 SQLite 的上游服务器，测试结束时自动关闭
func NewServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	srv := httptest.NewServer(mockapi.NewRouter(db, "test"))

	t.Cleanup(func() {
		srv.Close()
		testutil.CleanupTestDB(t, db)
	})

	return srv, db
}
