package mockapi

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/repository"
)

// NewRouter 按外部 API 的路径注册路由
func NewRouter(db *gorm.DB, mode string) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := NewHandler(repository.NewPostRepository(db), repository.NewCommentRepository(db))

	engine := gin.New()
	engine.Use(gin.Recovery())
	if mode != "release" && mode != "test" {
		engine.Use(gin.Logger())
	}

	post := engine.Group("/post")
	{
		post.GET("", h.ListPosts)
		post.POST("", h.CreatePost)
		post.GET("/:id", h.GetPost)
		post.PUT("/:id", h.UpdatePost)
		post.DELETE("/:id", h.DeletePost)

		post.GET("/:id/comment", h.ListComments)
		post.POST("/:id/comment", h.CreateComment)
		post.PUT("/:id/comment/:commentId", h.UpdateComment)
		post.DELETE("/:id/comment/:commentId", h.DeleteComment)
	}

	return engine
}
