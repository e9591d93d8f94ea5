package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/resp"
)

// Health GET /api/v1/healthz（负载均衡和监控探测用）
func Health(c *gin.Context) {
	resp.OK(c, gin.H{"status": "ok", "ts": time.Now().Unix()})
}
