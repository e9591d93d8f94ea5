package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/middleware"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/resp"
	"github.com/zeitwerk-app/zeitwerk-be/internal/store"
)

// NotifyHandler 通知事件的拉取和确认（前端 toast 用）
type NotifyHandler struct {
	Events *store.NotificationStore
}

func NewNotifyHandler(events *store.NotificationStore) *NotifyHandler {
	return &NotifyHandler{Events: events}
}

// Pull GET /api/v1/notifications/pull?limit=N
// limit 默认 50，上限 200
func (h *NotifyHandler) Pull(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	limit := 50
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	evs, err := h.Events.Pull(c.Request.Context(), vid, limit)
	if err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, evs)
}

type ackReq struct {
	LastID int64 `json:"last_id"`
}

// Ack POST /api/v1/notifications/ack  body: {"last_id":123}
// <= last_id 的全部标记已处理
func (h *NotifyHandler) Ack(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	var req ackReq
	if err := c.ShouldBindJSON(&req); err != nil || req.LastID <= 0 {
		resp.Err(c, resp.CodeBadParam, "bad last_id")
		return
	}
	if err := h.Events.AckUpTo(c.Request.Context(), vid, req.LastID); err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
