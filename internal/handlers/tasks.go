package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/resp"
	"github.com/zeitwerk-app/zeitwerk-be/internal/store"
)

// TaskHandler 看板任务接口
type TaskHandler struct {
	Tasks *store.TaskStore
}

func NewTaskHandler(tasks *store.TaskStore) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

// List GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context())
	if err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, tasks)
}

type createTaskReq struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Deadline      *int64   `json:"deadline"`
	EstimatedTime *int64   `json:"estimated_time"`
	Assignee      *string  `json:"assignee"`
	Order         int      `json:"order"`
}

// Create POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, resp.CodeBadParam, "invalid body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		resp.Err(c, resp.CodeBadParam, "title required")
		return
	}
	if !validStatus(req.Status) {
		req.Status = models.StatusTodo
	}
	t := &models.Task{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		Category:      req.Category,
		Tags:          req.Tags,
		Deadline:      req.Deadline,
		EstimatedTime: req.EstimatedTime,
		Assignee:      req.Assignee,
		Order:         req.Order,
	}
	if err := h.Tasks.Create(c.Request.Context(), t); err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, t)
}

// 局部更新：只有传了的字段才会写库
type updateTaskReq struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Status           *string   `json:"status"`
	Priority         *string   `json:"priority"`
	Category         *string   `json:"category"`
	Tags             *[]string `json:"tags"`
	Deadline         *int64    `json:"deadline"`
	EstimatedTime    *int64    `json:"estimated_time"`
	Assignee         *string   `json:"assignee"`
	Order            *int      `json:"order"`
	TotalTrackedTime *int64    `json:"total_tracked_time"` // 显式手动修正才会传
}

// Update PATCH /api/v1/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, resp.CodeBadParam, "invalid body")
		return
	}
	fields := map[string]any{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			resp.Err(c, resp.CodeBadParam, "title required")
			return
		}
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			resp.Err(c, resp.CodeBadParam, "invalid status")
			return
		}
		fields["status"] = *req.Status
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Tags != nil {
		fields["tags"] = models.StringList(*req.Tags)
	}
	if req.Deadline != nil {
		fields["deadline"] = *req.Deadline
	}
	if req.EstimatedTime != nil {
		fields["estimated_time"] = *req.EstimatedTime
	}
	if req.Assignee != nil {
		fields["assignee"] = *req.Assignee
	}
	if req.Order != nil {
		fields["sort_order"] = *req.Order
	}
	if req.TotalTrackedTime != nil {
		fields["total_tracked_time"] = *req.TotalTrackedTime
	}
	if len(fields) == 0 {
		resp.Err(c, resp.CodeBadParam, "nothing to update")
		return
	}
	if err := h.Tasks.Update(c.Request.Context(), c.Param("id"), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			resp.Err(c, resp.CodeNotFound, "")
			return
		}
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

// Delete DELETE /api/v1/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

type moveReq struct {
	Status string `json:"status"`
	Order  int    `json:"order"`
}

// Move POST /api/v1/tasks/:id/move（看板拖拽）
func (h *TaskHandler) Move(c *gin.Context) {
	var req moveReq
	if err := c.ShouldBindJSON(&req); err != nil || !validStatus(req.Status) {
		resp.Err(c, resp.CodeBadParam, "invalid status")
		return
	}
	if err := h.Tasks.Move(c.Request.Context(), c.Param("id"), req.Status, req.Order); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			resp.Err(c, resp.CodeNotFound, "")
			return
		}
		resp.Err(c, resp.CodeInternal, err.Error())
		return
	}
	resp.OK(c, gin.H{"ok": true})
}

func validStatus(s string) bool {
	return s == models.StatusTodo || s == models.StatusInProgress || s == models.StatusDone
}
