package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/middleware"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/resp"
	"github.com/zeitwerk-app/zeitwerk-be/internal/store"
	"github.com/zeitwerk-app/zeitwerk-be/internal/summary"
)

// WorkdayHandler 工作日历史（日历页）的接口
type WorkdayHandler struct {
	Days *store.DayStore
}

func NewWorkdayHandler(days *store.DayStore) *WorkdayHandler {
	return &WorkdayHandler{Days: days}
}

// List GET /api/v1/workdays（新的在前）
func (h *WorkdayHandler) List(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	days, err := h.Days.ListByUser(c.Request.Context(), vid)
	if err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, days)
}

type saveDayReq struct {
	ID       string             `json:"id"`
	Date     string             `json:"date"`
	Sections models.SectionList `json:"sections"`
}

// Save PUT /api/v1/workdays
// 编辑后的重新保存：先校验片段（重叠、start>=end），不合法整体拒绝不落库
func (h *WorkdayHandler) Save(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	var req saveDayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, resp.CodeBadParam, "invalid body")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		resp.Err(c, resp.CodeBadParam, "invalid date")
		return
	}
	if err := summary.ValidateSections(req.Sections, nowMillis()); err != nil {
		resp.Err(c, resp.CodeBadParam, err.Error())
		return
	}

	day := &models.Workday{
		ID:       req.ID,
		Date:     req.Date,
		UserID:   vid, // 归属强制取当前访客，不信请求体
		Sections: req.Sections,
	}
	if err := h.Days.Save(c.Request.Context(), day); err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, day)
}

// Delete DELETE /api/v1/workdays/:id
func (h *WorkdayHandler) Delete(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	day, err := h.Days.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, resp.CodeNotFound, "")
		return
	}
	if day.UserID != vid {
		resp.Err(c, resp.CodeNotFound, "")
		return
	}
	if err := h.Days.Delete(c.Request.Context(), day.ID); err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, gin.H{"ok": true})
}
