package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	MockAPI  MockAPIConfig  `mapstructure:"mockapi"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// UpstreamConfig 外部帖子/评论 API
type UpstreamConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig 仅供 mockapi 使用，driver 为 sqlite 或 mysql
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// RedisConfig host 为空时不连接 Redis（缓存、通知、重试队列全部关闭）
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type CacheConfig struct {
	PostsTTLSeconds    int `mapstructure:"posts_ttl_seconds"`
	PostTTLSeconds     int `mapstructure:"post_ttl_seconds"`
	CommentsTTLSeconds int `mapstructure:"comments_ttl_seconds"`
}

type QueueConfig struct {
	RetryQueue  string `mapstructure:"retry_queue"`
	MaxWorkers  int    `mapstructure:"max_workers"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// SweepConfig 孤儿评论清理
type SweepConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
	PageSize        int  `mapstructure:"page_size"`
	DryRun          bool `mapstructure:"dry_run"`
}

func (c SweepConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

type MockAPIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("upstream.base_url", "http://localhost:8090")
	v.SetDefault("upstream.timeout_seconds", 15)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite_path", "postboard.db")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "postboard")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("cache.posts_ttl_seconds", 30)
	v.SetDefault("cache.post_ttl_seconds", 60)
	v.SetDefault("cache.comments_ttl_seconds", 30)

	v.SetDefault("queue.retry_queue", "comment_delete_retry")
	v.SetDefault("queue.max_workers", 2)
	v.SetDefault("queue.max_attempts", 3)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type"})

	v.SetDefault("sweep.enabled", false)
	v.SetDefault("sweep.interval_minutes", 60)
	v.SetDefault("sweep.page_size", 50)
	v.SetDefault("sweep.dry_run", true)

	v.SetDefault("mockapi.host", "0.0.0.0")
	v.SetDefault("mockapi.port", 8090)
}

// Load 读取配置文件；同目录存在 config.local.yaml 时优先使用。
// 文件不存在时只使用默认值与环境变量。
func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 环境变量覆盖，例如 UPSTREAM_BASE_URL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
