package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/config"
)

// InitGorm 初始化 GORM 连接并运行自动迁移
// AutoMigrate 会自动建表、补列、建索引；已存在的表只加不删
func InitGorm(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	// Task：看板任务；Workday：工作日归档；Notification：通知事件
	if err := db.AutoMigrate(&models.Task{}, &models.Workday{}, &models.Notification{}); err != nil {
		return nil, err
	}
	return db, nil
}
