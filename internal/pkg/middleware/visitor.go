package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const VisitorCookie = "zwid"

// Visitor 为每个访客分配唯一 ID（cookie 存一年）
// 后端所有按用户隔离的数据都挂在这个 ID 上
func Visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		vid, err := c.Cookie(VisitorCookie)
		if err != nil || vid == "" {
			vid = uuid.NewString()
			// HttpOnly 防 JS 读取；开发环境 Secure=false，上线走 HTTPS 改 true
			c.SetCookie(VisitorCookie, vid, 3600*24*365, "/", "", false, true)
		}
		c.Set("visitor_id", vid)
		c.Next()
	}
}

// VisitorID 从上下文取访客 ID
func VisitorID(c *gin.Context) (string, bool) {
	vid := c.GetString("visitor_id")
	return vid, vid != ""
}
