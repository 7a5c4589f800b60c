package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/qs3c/postboard_go_server/config"
	"github.com/qs3c/postboard_go_server/internal/cache"
	"github.com/qs3c/postboard_go_server/internal/database"
	"github.com/qs3c/postboard_go_server/internal/pkg/pubsub"
	"github.com/qs3c/postboard_go_server/internal/pkg/queue"
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

	if !cfg.Redis.Enabled() {
		log.Fatal("Worker requires redis, set redis.host")
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	defer rdb.Close()
	log.Println("Redis connected")

	// 初始化 Queue 和 Pub/Sub
	retryQueue := queue.NewQueue(rdb, cfg.Queue.RetryQueue)
	publisher := pubsub.NewPublisher(rdb)
	queryCache := cache.New(rdb, cache.TTLs{
		Comments: time.Duration(cfg.Cache.CommentsTTLSeconds) * time.Second,
	})

	upstreamAPI := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout())
	retrier := worker.NewRetrier(retryQueue, upstreamAPI, queryCache, publisher, cfg.Queue.MaxAttempts)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Worker started on queue %s, max workers: %d", retryQueue.Name(), cfg.Queue.MaxWorkers)
	retrier.Run(ctx, cfg.Queue.MaxWorkers)
	log.Println("Worker shutdown complete")
}
