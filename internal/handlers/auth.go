package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/middleware"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/resp"
	"github.com/zeitwerk-app/zeitwerk-be/pkg/util"
)

type guestLoginResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// GuestLogin POST /guest-login
// 基于访客 cookie 签发 JWT（给前端存 localStorage 用）
func GuestLogin(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeInternal, "visitor id missing")
		return
	}
	token, err := util.GenerateToken(vid, true)
	if err != nil {
		resp.Err(c, resp.CodeInternal, "token error")
		return
	}
	// 取 uuid 前缀做展示用户名
	short := vid
	if i := strings.IndexByte(vid, '-'); i > 0 {
		short = vid[:i]
	}
	resp.OK(c, guestLoginResp{
		Token:    token,
		Username: "guest-" + short,
	})
}

// Me GET /api/v1/me  校验令牌、返回身份
func Me(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "unauthorized")
		return
	}
	resp.OK(c, gin.H{
		"visitor_id": vid,
		"is_guest":   c.GetBool("is_guest"),
	})
}
