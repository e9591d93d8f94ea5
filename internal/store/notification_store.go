package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
)

// NotificationStore 通知事件：写入后由前端拉取并 ack
// 流程和成长事件的 pull/ack 游标一样
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Notify 写一条通知；这里的失败只记日志级别的无所谓，调用方不依赖它
func (s *NotificationStore) Notify(userID, severity, message, action string) {
	_ = s.db.Create(&models.Notification{
		UserID:   userID,
		Severity: severity,
		Message:  message,
		Action:   action,
	}).Error
}

// Pull 拉取未处理的通知，按 id 升序
func (s *NotificationStore) Pull(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var evs []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND handled = false", userID).
		Order("id ASC").Limit(limit).Find(&evs).Error
	return evs, err
}

// AckUpTo 把 <= lastID 的通知标记为已处理，防止重复弹
func (s *NotificationStore) AckUpTo(ctx context.Context, userID string, lastID int64) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND id <= ?", userID, lastID).
		Update("handled", true).Error
}
