package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// AllPosts 订阅全部帖子的通知
const AllPosts = ""

type Hub struct {
	// 每个帖子可以有多个浏览器连接
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	PostID string
	Conn   *websocket.Conn
	mu     sync.Mutex // 写锁，防止并发写入
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.PostID] == nil {
		h.clients[client.PostID] = make(map[*Client]struct{})
	}
	h.clients[client.PostID][client] = struct{}{}

	log.Printf("Watcher connected to post %q, post_conns: %d, total: %d",
		client.PostID, len(h.clients[client.PostID]), h.countLocked())
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.PostID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.PostID)
		}
	}
	log.Printf("Watcher disconnected from post %q", client.PostID)
}

// Broadcast 向关注该帖子以及关注全部帖子的连接发送消息
func (h *Hub) Broadcast(postID string, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	// 复制一份引用，避免长时间持锁
	var clients []*Client
	for c := range h.clients[postID] {
		clients = append(clients, c)
	}
	if postID != AllPosts {
		for c := range h.clients[AllPosts] {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			log.Printf("Broadcast write error for post %q: %v", postID, err)
		}
	}
	return nil
}

// Watching 该帖子是否有连接在关注
func (h *Hub) Watching(postID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[postID]) > 0
}

// ConnectionCount 获取在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
