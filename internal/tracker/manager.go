package tracker

import "sync"

// Manager 每个用户一个逻辑会话
// 活动中（Running/Paused）的实例一直沿用，跨了午夜也不换：片段记在开始那天，
// 归档前必须还能找到它；只有 Stopped（终态）或还没开始就过期的实例才换新
type Manager struct {
	mu       sync.Mutex
	trackers map[string]*Tracker

	tasks  TaskDirectory
	days   DayArchive
	notify Notifier
}

func NewManager(tasks TaskDirectory, days DayArchive, notify Notifier) *Manager {
	return &Manager{
		trackers: map[string]*Tracker{},
		tasks:    tasks,
		days:     days,
		notify:   notify,
	}
}

// ForUser 取该用户的跟踪器，必要时以 date 为当天新建
func (m *Manager) ForUser(userID, date string) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.trackers[userID]; ok {
		switch t.State() {
		case StateRunning, StatePaused:
			return t
		case StateIdle:
			if t.Date() == date {
				return t
			}
		}
	}
	t := New(userID, date, m.tasks, m.days, m.notify)
	m.trackers[userID] = t
	return t
}

// Peek 只查不建；该用户没有跟踪器时返回 nil
func (m *Manager) Peek(userID string) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trackers[userID]
}
