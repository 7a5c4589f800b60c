package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/qs3c/postboard_go_server/config"
	"github.com/qs3c/postboard_go_server/internal/database"
	"github.com/qs3c/postboard_go_server/internal/pkg/cascade"
	"github.com/qs3c/postboard_go_server/internal/pkg/cron"
	"github.com/qs3c/postboard_go_server/internal/pkg/queue"
	"github.com/qs3c/postboard_go_server/internal/upstream"
	"github.com/qs3c/postboard_go_server/internal/worker"
)

var (
	dryRun   = flag.Bool("dry-run", true, "Dry run mode, don't actually delete comments")
	interval = flag.Duration("interval", 0, "Run as a daemon with this sweep interval (0 runs once)")
	pageSize = flag.Int("page-size", 0, "Posts fetched per page (0 uses config)")
)

const sweepTimeout = 30 * time.Minute

// options 命令行参数
type options struct {
	DryRun   bool
	Interval time.Duration
	PageSize int
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	log.Println("Starting orphan comment sweep...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	opts := options{DryRun: *dryRun, Interval: *interval, PageSize: *pageSize}
	if err := run(cfg, opts, waitForSignal); err != nil {
		log.Printf("Sweep failed: %v", err)
		os.Exit(1)
	}
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}

// run 执行一次清理，或在 Interval > 0 时以守护模式运行直到 wait 返回
func run(cfg *config.Config, opts options, wait func()) error {
	size := cfg.Sweep.PageSize
	if opts.PageSize > 0 {
		size = opts.PageSize
	}

	upstreamAPI := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout())
	resolver := cascade.NewResolver(upstreamAPI, upstreamAPI)

	// 有 Redis 时失败的删除交给 worker 重试
	if cfg.Redis.Enabled() {
		rdb, err := database.NewRedis(&cfg.Redis)
		if err != nil {
			log.Printf("Warning: redis unavailable, failed deletes will only be logged: %v", err)
		} else {
			defer rdb.Close()
			resolver.WithFailureHook(worker.EnqueueFailures(queue.NewQueue(rdb, cfg.Queue.RetryQueue)))
		}
	}

	sweeper := cron.NewService(upstreamAPI, resolver, opts.Interval, size, opts.DryRun)

	if opts.Interval > 0 {
		sweeper.Start()
		wait()
		sweeper.Stop()
		log.Println("Sweep daemon stopped")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	result, err := sweeper.RunNow(ctx)
	if err != nil {
		return err
	}
	printSummary(result)
	return nil
}

// printSummary 输出统计
func printSummary(result *cron.SweepResult) {
	log.Println(strings.Repeat("=", 60))
	log.Println("Sweep Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Posts scanned: %d", result.PostsScanned)
	log.Printf("Orphans found: %d", result.OrphansFound)
	log.Printf("Comments deleted: %d", result.Deleted)
	log.Printf("Deletes failed: %d", result.Failed)
	if result.DryRun {
		log.Println("DRY RUN MODE - No comments were actually deleted")
		log.Println("   Run with -dry-run=false to actually delete comments")
	} else {
		log.Println("Sweep completed!")
	}
	log.Println(strings.Repeat("=", 60))
}
