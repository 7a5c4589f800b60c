package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/qs3c/postboard_go_server/config"
	"github.com/qs3c/postboard_go_server/internal/api"
	"github.com/qs3c/postboard_go_server/internal/api/handler"
	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/database"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/cron"
	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
	"github.com/qs3c/postboard_go_server/internal/pkg/queue"
	"github.com/qs3c/postboard_go_server/internal/pkg/ws"
	"github.com/qs3c/postboard_go_server/internal/service"
	"github.com/qs3c/postboard_go_server/internal/upstream"
	"github.com/qs3c/postboard_go_server/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 外部 API 客户端
	upstreamAPI := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout())
	resolver := cascade.NewResolver(upstreamAPI, upstreamAPI)
	log.Printf("Upstream API: %s", cfg.Upstream.BaseURL)

	// WebSocket Hub
	wsHub := ws.NewHub()

	// 初始化 Redis（可选）
	var (
		rdb      *redis.Client
		notifier service.Notifier = service.NopNotifier{}
	)
	if cfg.Redis.Enabled() {
		rdb, err = database.NewRedis(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect redis: %v", err)
		}
		defer rdb.Close()
		log.Println("Redis connected")

		notifier = pubsub.NewPublisher(rdb)
		retryQueue := queue.NewQueue(rdb, cfg.Queue.RetryQueue)
		resolver.WithFailureHook(worker.EnqueueFailures(retryQueue))

		// 把通知转发给浏览器
		subscriber := pubsub.NewSubscriber(rdb)
		go func() {
			err := subscriber.Subscribe(ctx, func(n *pubsub.Notice) {
				if err := wsHub.Broadcast(n.PostID, &ws.Message{Type: "notice", Data: n}); err != nil {
					log.Printf("Failed to broadcast notice: %v", err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Notice subscriber stopped: %v", err)
			}
		}()
	} else {
		log.Println("Redis not configured, cache and notices disabled")
	}

	queryCache := cache.New(rdb, cache.TTLs{
		Posts:    time.Duration(cfg.Cache.PostsTTLSeconds) * time.Second,
		Post:     time.Duration(cfg.Cache.PostTTLSeconds) * time.Second,
		Comments: time.Duration(cfg.Cache.CommentsTTLSeconds) * time.Second,
	})

	// 初始化 Service
	postService := service.NewPostService(upstreamAPI, queryCache, resolver, notifier)
	commentService := service.NewCommentService(upstreamAPI, queryCache, resolver, notifier)

	// 初始化 Handler
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.CORS.AllowedOrigins)
	healthHandler := handler.NewHealthHandler(rdb)

	// 孤儿评论清理（可选）
	if cfg.Sweep.Enabled {
		sweeper := cron.NewService(upstreamAPI, resolver, cfg.Sweep.Interval(), cfg.Sweep.PageSize, cfg.Sweep.DryRun)
		sweeper.Start()
		defer sweeper.Stop()
	}

	// 初始化 Router
	router := api.NewRouter(postHandler, commentHandler, websocketHandler, healthHandler, cfg)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server shutdown complete")
}
