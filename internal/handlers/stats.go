package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/middleware"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/resp"
	"github.com/zeitwerk-app/zeitwerk-be/internal/summary"
	"github.com/zeitwerk-app/zeitwerk-be/internal/tracker"
)

// DayLister 汇总接口只需要按用户列工作日
type DayLister interface {
	ListByUser(ctx context.Context, userID string) ([]models.Workday, error)
}

// StatsHandler 日/周汇总：已归档的工作日加上进行中的跟踪
type StatsHandler struct {
	Days DayLister
	Mgr  *tracker.Manager
}

func NewStatsHandler(days DayLister, mgr *tracker.Manager) *StatsHandler {
	return &StatsHandler{Days: days, Mgr: mgr}
}

// Today GET /api/v1/stats/today
// 当天所有已归档记录相加，再加上还没结束的会话
// Stopped 的不再加（它的记录已归档）；归档失败重试期间可能留下半份记录，按 id 去掉
func (h *StatsHandler) Today(c *gin.Context) {
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
	date := today()
	now := nowMillis()
	var liveSec int64
	if t := h.Mgr.Peek(vid); t != nil && t.State() != tracker.StateStopped && t.Date() == date {
		liveSec = t.Snapshot(now).WorkedSeconds
		if id := t.DayID(); id != "" {
			kept := make([]models.Workday, 0, len(days))
			for _, d := range days {
				if d.ID != id {
					kept = append(kept, d)
				}
			}
			days = kept
		}
	}
	worked := summary.TotalWorkedSecondsForDate(days, date, now) + liveSec
	resp.OK(c, gin.H{
		"date":           date,
		"worked_seconds": worked,
		"formatted":      summary.FormatDuration(worked),
	})
}

// Weekly GET /api/v1/stats/weekly
// 以今天结尾的 7 天，每天的工作小时数（缺数据的日期为 0）
func (h *StatsHandler) Weekly(c *gin.Context) {
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
	series := summary.WeeklySeries(days, time.Now(), nowMillis())
	resp.OK(c, series)
}
