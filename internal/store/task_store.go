package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
)

var ErrNotFound = errors.New("record not found")

// TaskStore 任务表的读写
type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore { return &TaskStore{db: db} }

// List 全部任务，按状态列内的排序字段返回
func (s *TaskStore) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Order("status, sort_order, created_at").
		Find(&tasks).Error
	return tasks, err
}

// Create 新建任务，id 由服务端生成
func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	return s.db.WithContext(ctx).Create(t).Error
}

// Update 局部更新（只改传进来的字段）
func (s *TaskStore) Update(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).
		Delete(&models.Task{}).Error
}

// AddTrackedTime 把新增秒数累加到任务上（加，不是覆盖）
func (s *TaskStore) AddTrackedTime(ctx context.Context, id string, deltaSec int64) error {
	return s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("total_tracked_time", gorm.Expr("total_tracked_time + ?", deltaSec)).Error
}

// Move 看板拖拽：换状态列并放到指定位置
func (s *TaskStore) Move(ctx context.Context, id, status string, order int) error {
	return s.Update(ctx, id, map[string]any{
		"status":     status,
		"sort_order": order,
	})
}
