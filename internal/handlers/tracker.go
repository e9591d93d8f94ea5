package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/middleware"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/resp"
	"github.com/zeitwerk-app/zeitwerk-be/internal/tracker"
)

// TrackerHandler 工作日跟踪的接口层
// baseCtx 给轮询 goroutine 用，跟进程同生命周期
type TrackerHandler struct {
	Mgr     *tracker.Manager
	BaseCtx context.Context
}

func NewTrackerHandler(ctx context.Context, mgr *tracker.Manager) *TrackerHandler {
	return &TrackerHandler{Mgr: mgr, BaseCtx: ctx}
}

func nowMillis() int64 { return time.Now().UnixMilli() }

func today() string { return time.Now().Format("2006-01-02") }

type startReq struct {
	TaskID string `json:"task_id"`
}

// Start POST /api/v1/tracker/start
// 没带 task_id 时不报错也不动状态，原样返回快照
func (h *TrackerHandler) Start(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	var req startReq
	_ = c.ShouldBindJSON(&req)

	t := h.Mgr.ForUser(vid, today())
	snap := t.Start(req.TaskID, nowMillis())
	if snap.State == tracker.StateRunning {
		t.StartTicker(h.BaseCtx, time.Second)
	}
	resp.OK(c, snap)
}

// Pause POST /api/v1/tracker/pause
func (h *TrackerHandler) Pause(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	t := h.Mgr.Peek(vid)
	if t == nil {
		resp.Err(c, resp.CodeBadParam, "not started")
		return
	}
	resp.OK(c, t.Pause(nowMillis()))
}

// Resume POST /api/v1/tracker/resume
// 可以换一个任务继续（task_id 由前端带上）
func (h *TrackerHandler) Resume(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	var req startReq
	_ = c.ShouldBindJSON(&req)

	t := h.Mgr.Peek(vid)
	if t == nil {
		resp.Err(c, resp.CodeBadParam, "not started")
		return
	}
	resp.OK(c, t.Resume(req.TaskID, nowMillis()))
}

// Stop POST /api/v1/tracker/stop
// 归档失败时返回 500，内存状态保留，前端可直接重试
func (h *TrackerHandler) Stop(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	t := h.Mgr.Peek(vid)
	if t == nil {
		resp.Err(c, resp.CodeBadParam, "not started")
		return
	}
	snap, err := t.Stop(c.Request.Context(), nowMillis())
	if err != nil {
		if errors.Is(err, tracker.ErrNotStarted) {
			resp.Err(c, resp.CodeBadParam, "not started")
			return
		}
		resp.Err(c, resp.CodeInternal, "workday could not be saved")
		return
	}
	resp.OK(c, snap)
}

// Current GET /api/v1/tracker/current
// 没有活动跟踪器时 data 为 null
func (h *TrackerHandler) Current(c *gin.Context) {
	vid, ok := middleware.VisitorID(c)
	if !ok {
		resp.Err(c, resp.CodeBadParam, "no visitor")
		return
	}
	t := h.Mgr.Peek(vid)
	if t == nil {
		resp.OK(c, nil)
		return
	}
	resp.OK(c, t.Snapshot(nowMillis()))
}
