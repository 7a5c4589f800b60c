package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/postboard_go_server/config"
	"github.com/qs3c/postboard_go_server/internal/api/handler"
	"github.com/qs3c/postboard_go_server/internal/api/middleware"
)

type Router struct {
	postHandler      *handler.PostHandler
	commentHandler   *handler.CommentHandler
	websocketHandler *handler.WebSocketHandler
	healthHandler    *handler.HealthHandler
	cfg              *config.Config
}

func NewRouter(
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	websocketHandler *handler.WebSocketHandler,
	healthHandler *handler.HealthHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		postHandler:      postHandler,
		commentHandler:   commentHandler,
		websocketHandler: websocketHandler,
		healthHandler:    healthHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		engine.Use(gin.Logger())
	}
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/healthz", r.healthHandler.Handle)

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 帖子
		posts := api.Group("/posts")
		{
			posts.GET("", r.postHandler.List)
			posts.POST("", r.postHandler.Create)
			posts.GET("/:id", r.postHandler.Get)
			posts.PUT("/:id", r.postHandler.Update)
			posts.DELETE("/:id", r.postHandler.Delete)

			// 评论
			posts.GET("/:id/comments", r.commentHandler.Tree)
			posts.POST("/:id/comments", r.commentHandler.Create)
			posts.DELETE("/:id/comments", r.commentHandler.DeleteAll)
			posts.PUT("/:id/comments/:commentId", r.commentHandler.Update)
			posts.DELETE("/:id/comments/:commentId", r.commentHandler.Delete)
		}
	}

	return engine
}
