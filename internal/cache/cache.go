package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// 默认过期时间
const (
	DefaultPostsTTL    = 30 * time.Second
	DefaultPostTTL     = time.Minute
	DefaultCommentsTTL = 30 * time.Second
)

const postsPattern = "posts:*"

// TTLs 各类数据的缓存时间
type TTLs struct {
	Posts    time.Duration
	Post     time.Duration
	Comments time.Duration
}

func (t TTLs) withDefaults() TTLs {
	if t.Posts <= 0 {
		t.Posts = DefaultPostsTTL
	}
	if t.Post <= 0 {
		t.Post = DefaultPostTTL
	}
	if t.Comments <= 0 {
		t.Comments = DefaultCommentsTTL
	}
	return t
}

// Cache 查询结果缓存，client 为 nil 时不缓存
type Cache struct {
	client *redis.Client
	ttl    TTLs
}

// New 创建缓存
func New(client *redis.Client, ttl TTLs) *Cache {
	return &Cache{client: client, ttl: ttl.withDefaults()}
}

// Enabled 是否启用了缓存
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// TTL 返回生效的缓存时间
func (c *Cache) TTL() TTLs {
	return c.ttl
}

// PostsKey 帖子列表缓存键
func PostsKey(order string, page, limit int) string {
	return fmt.Sprintf("posts:%s:%d:%d", order, page, limit)
}

// PostKey 单个帖子缓存键
func PostKey(id string) string {
	return "post:" + id
}

// CommentsKey 帖子评论列表缓存键
func CommentsKey(postID string) string {
	return "comments:" + postID
}

// GetJSON 读取并解析缓存，未命中返回 false
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化并写入缓存
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Aside 先查缓存，未命中时调用 fetch 填充 dest 并回写缓存。
// 缓存本身的错误只记录日志，不影响请求。
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err != nil {
		log.Printf("cache: read %s failed: %v", key, err)
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		log.Printf("cache: write %s failed: %v", key, err)
	}
	return nil
}

// Delete 删除指定键
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache: delete %v failed: %v", keys, err)
	}
}

// InvalidatePosts 清除所有帖子列表缓存
func (c *Cache) InvalidatePosts(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, postsPattern, 100).Result()
		if err != nil {
			log.Printf("cache: scan %s failed: %v", postsPattern, err)
			return
		}
		c.Delete(ctx, keys...)
		if next == 0 {
			return
		}
		cursor = next
	}
}

// InvalidatePost 帖子被修改后清除其详情与列表缓存
func (c *Cache) InvalidatePost(ctx context.Context, id string) {
	c.Delete(ctx, PostKey(id))
	c.InvalidatePosts(ctx)
}

// RemovePost 帖子被删除后清除与其相关的全部缓存
func (c *Cache) RemovePost(ctx context.Context, id string) {
	c.Delete(ctx, PostKey(id), CommentsKey(id))
	c.InvalidatePosts(ctx)
}

// InvalidateComments 清除帖子的评论缓存
func (c *Cache) InvalidateComments(ctx context.Context, postID string) {
	c.Delete(ctx, CommentsKey(postID))
}
