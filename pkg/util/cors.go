package util

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Cors 跨域中间件：只给白名单内的来源加 CORS 头
// 白名单从 ALLOW_ORIGINS 读，逗号分隔
func Cors() gin.HandlerFunc {
	allow := os.Getenv("ALLOW_ORIGINS")
	if allow == "" {
		// 默认允许常见本地前端开发地址
		allow = "http://localhost:4200,http://127.0.0.1:4200,http://localhost:5173,http://127.0.0.1:5173"
	}
	origins := splitCSV(allow)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, a := range origins {
			if origin == a {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				break
			}
		}
		// 预检请求直接 204
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
