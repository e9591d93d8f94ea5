package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
)

// DayStore 工作日归档表的读写
type DayStore struct {
	db *gorm.DB
}

func NewDayStore(db *gorm.DB) *DayStore { return &DayStore{db: db} }

// ListByUser 该用户的全部工作日，新的在前
func (s *DayStore) ListByUser(ctx context.Context, userID string) ([]models.Workday, error) {
	var days []models.Workday
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&days).Error
	return days, err
}

func (s *DayStore) Get(ctx context.Context, id string) (*models.Workday, error) {
	var d models.Workday
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Save 无 id 插入，有 id 整体替换（多端编辑按后写覆盖处理）
func (s *DayStore) Save(ctx context.Context, day *models.Workday) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
		return s.db.WithContext(ctx).Create(day).Error
	}
	return s.db.WithContext(ctx).Save(day).Error
}

func (s *DayStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).
		Delete(&models.Workday{}).Error
}
