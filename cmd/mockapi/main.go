package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/qs3c/postboard_go_server/config"
	"github.com/qs3c/postboard_go_server/internal/database"
	"github.com/qs3c/postboard_go_server/internal/mockapi"
)

func main() {
	_ = godotenv.Load()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Printf("Database connected (%s)", cfg.Database.Driver)

	engine := mockapi.NewRouter(db, cfg.Server.Mode)

	addr := fmt.Sprintf("%s:%d", cfg.MockAPI.Host, cfg.MockAPI.Port)
	log.Printf("Mock API starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start mock api: %v", err)
	}
}
