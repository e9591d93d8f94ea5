package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 片段类型：工作或休息
const (
	SectionWork  = "work"
	SectionPause = "pause"
)

// 一个时间片段（开始->结束或未结束，end 为 nil 表示进行中）
// 字段名与前端存的文档保持一致：start/end/type/taskId
type Section struct {
	Start  int64   `json:"start"` // 毫秒时间戳
	End    *int64  `json:"end"`   // nil = 进行中
	Kind   string  `json:"type"`  // work、pause
	TaskID *string `json:"taskId,omitempty"`
}

// Open 片段是否还在进行中
func (s Section) Open() bool { return s.End == nil }

// SectionList 以 jsonb 存进 workdays 表
type SectionList []Section

func (l SectionList) Value() (driver.Value, error) {
	if l == nil {
		l = SectionList{}
	}
	return json.Marshal(l)
}

func (l *SectionList) Scan(src any) error {
	if src == nil {
		*l = SectionList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("sections: unsupported column type")
}

// 一个工作日（某用户某天的全部片段）
type Workday struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	Date      string         `json:"date" gorm:"index:idx_workday_user_date"` // ISO 日期，如 2026-08-31
	UserID    string         `json:"user_id" gorm:"type:uuid;index:idx_workday_user_date"`
	Sections  SectionList    `json:"sections" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// 看板状态
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// StringList 标签用，jsonb 存储
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("tags: unsupported column type")
}

// 看板任务
type Task struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"` // todo、in-progress、done

	// 累计专注秒数，结束工作日时由聚合写入（只加不减，手动编辑除外）
	TotalTrackedTime int64 `json:"total_tracked_time"`
	// 同一状态列内的排序位置，允许留空隙
	Order int `json:"order" gorm:"column:sort_order"`

	Priority      string     `json:"priority,omitempty"`
	Category      string     `json:"category,omitempty"`
	Tags          StringList `json:"tags,omitempty" gorm:"type:jsonb"`
	Deadline      *int64     `json:"deadline,omitempty"`       // 毫秒时间戳
	EstimatedTime *int64     `json:"estimated_time,omitempty"` // 预估秒数
	Assignee      *string    `json:"assignee,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// 通知级别（对应前端 toast 类型）
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// 通知事件：结束/保存失败等写一条，前端拉取后 ack
type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index"`
	Severity  string    `json:"severity"` // success、error、warning、info
	Message   string    `json:"message"`
	Action    string    `json:"action,omitempty"`
	Handled   bool      `json:"handled" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
