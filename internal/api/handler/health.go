package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthHandler struct {
	rdb *redis.Client
}

// NewHealthHandler rdb 可以为 nil
func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{rdb: rdb}
}

// Handle 存活检查
// GET /healthz
func (h *HealthHandler) Handle(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if h.rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	c.JSON(http.StatusOK, status)
}
