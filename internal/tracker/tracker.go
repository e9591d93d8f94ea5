package tracker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/zeitwerk-app/zeitwerk-be/internal/aggregate"
	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
)

// 跟踪器状态
const (
	StateIdle    = "idle"
	StateRunning = "running"
	StatePaused  = "paused"
	StateStopped = "stopped"
)

var ErrNotStarted = errors.New("tracker not started")

// TaskDirectory 任务库（结束时读任务列表、累加已跟踪时间）
type TaskDirectory interface {
	List(ctx context.Context) ([]models.Task, error)
	AddTrackedTime(ctx context.Context, id string, deltaSec int64) error
}

// DayArchive 工作日归档（无 id 插入，有 id 整体替换）
type DayArchive interface {
	Save(ctx context.Context, day *models.Workday) error
}

// Notifier 用户可见的通知（成功/失败提示），失败不影响正确性
type Notifier interface {
	Notify(userID, severity, message, action string)
}

// Snapshot 某一时刻的跟踪器视图，推给订阅者和接口层
type Snapshot struct {
	State         string           `json:"state"`
	Date          string           `json:"date"`
	CurrentTaskID string           `json:"current_task_id,omitempty"`
	WorkedSeconds int64            `json:"worked_seconds"`
	Sections      []models.Section `json:"sections"`
}

type Listener func(Snapshot)

// Tracker 一个用户一天的工作/休息跟踪状态机
// 所有转移都在锁内同步完成；片段列表按 start 升序，最多一个未收口且在末尾
type Tracker struct {
	mu          sync.Mutex
	userID      string
	date        string // ISO 日期
	state       string
	currentTask string
	sections    []models.Section
	listeners   []Listener

	// 结束时的交接目标
	tasks  TaskDirectory
	days   DayArchive
	notify Notifier

	// 交接进度：保证重试 Stop 不会重复加秒数、不会重复建档
	// applied 记每个任务已经加过的秒数，重试只补差额（失败后继续干活也不会少算）
	day     *models.Workday
	applied map[string]int64

	ticking bool
}

func New(userID, date string, tasks TaskDirectory, days DayArchive, notify Notifier) *Tracker {
	return &Tracker{
		userID:  userID,
		date:    date,
		state:   StateIdle,
		tasks:   tasks,
		days:    days,
		notify:  notify,
		applied: map[string]int64{},
	}
}

func (t *Tracker) Date() string { return t.date }

// DayID 交接时建档的工作日 id；还没归档过返回空串
func (t *Tracker) DayID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.day == nil {
		return ""
	}
	return t.day.ID
}

func (t *Tracker) State() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Subscribe 注册状态变化回调（UI 更新用）
func (t *Tracker) Subscribe(fn Listener) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Start Idle -> Running，开一个 work 片段
// 没选任务时静默不处理（表单应当拦住，但状态机不能因此坏掉）
func (t *Tracker) Start(taskID string, now int64) Snapshot {
	t.mu.Lock()
	if t.state != StateIdle || taskID == "" {
		snap := t.snapshotLocked(now)
		t.mu.Unlock()
		return snap
	}
	t.openSection(models.SectionWork, taskID, now)
	t.currentTask = taskID
	t.state = StateRunning
	snap := t.snapshotLocked(now)
	t.mu.Unlock()
	t.publish(snap)
	return snap
}

// Pause Running -> Paused，收口 work 片段、开 pause 片段
func (t *Tracker) Pause(now int64) Snapshot {
	t.mu.Lock()
	if t.state != StateRunning {
		snap := t.snapshotLocked(now)
		t.mu.Unlock()
		return snap
	}
	t.closeSection(now)
	t.openSection(models.SectionPause, "", now)
	t.state = StatePaused
	snap := t.snapshotLocked(now)
	t.mu.Unlock()
	t.publish(snap)
	return snap
}

// Resume Paused -> Running，可以换一个任务继续
func (t *Tracker) Resume(taskID string, now int64) Snapshot {
	t.mu.Lock()
	if t.state != StatePaused || taskID == "" {
		snap := t.snapshotLocked(now)
		t.mu.Unlock()
		return snap
	}
	t.closeSection(now)
	t.openSection(models.SectionWork, taskID, now)
	t.currentTask = taskID
	t.state = StateRunning
	snap := t.snapshotLocked(now)
	t.mu.Unlock()
	t.publish(snap)
	return snap
}

// Tick 秒级轮询：只有 Running 时重新计算并推送，Paused/Idle 不累计
func (t *Tracker) Tick(now int64) {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	snap := t.snapshotLocked(now)
	t.mu.Unlock()
	t.publish(snap)
}

// Stop Running|Paused -> Stopped
// 收口全部片段后把结果交给任务聚合和归档；只有保存全部成功才算 Stopped，
// 失败时通知用户、保留状态让用户重试；Stopped 之后再调用是幂等空操作
func (t *Tracker) Stop(ctx context.Context, now int64) (Snapshot, error) {
	t.mu.Lock()

	if t.state == StateStopped {
		snap := t.snapshotLocked(now)
		t.mu.Unlock()
		return snap, nil
	}
	if t.state == StateIdle {
		snap := t.snapshotLocked(now)
		t.mu.Unlock()
		return snap, ErrNotStarted
	}
	t.closeSection(now)

	if err := t.handoffLocked(ctx); err != nil {
		snap := t.snapshotLocked(now)
		t.mu.Unlock()
		t.notify.Notify(t.userID, models.SeverityError,
			"Workday could not be saved", "retry")
		return snap, err
	}

	t.state = StateStopped
	t.currentTask = ""
	snap := t.snapshotLocked(now)
	t.mu.Unlock()

	t.notify.Notify(t.userID, models.SeveritySuccess, "Workday saved", "")
	t.publish(snap)
	return snap, nil
}

// handoffLocked 归档工作日并把 work 秒数加到任务上
// day 只建一次（重试沿用同一 id），每个任务只补尚未入账的差额
func (t *Tracker) handoffLocked(ctx context.Context) error {
	if t.day == nil {
		t.day = &models.Workday{
			Date:     t.date,
			UserID:   t.userID,
			Sections: append(models.SectionList{}, t.sections...),
		}
	} else {
		t.day.Sections = append(models.SectionList{}, t.sections...)
	}
	if err := t.days.Save(ctx, t.day); err != nil {
		return err
	}

	tasks, err := t.tasks.List(ctx)
	if err != nil {
		return err
	}
	deltas := aggregate.ApplyCompletedSections(t.sections, tasks)
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		diff := deltas[id] - t.applied[id]
		if diff <= 0 {
			continue
		}
		if err := t.tasks.AddTrackedTime(ctx, id, diff); err != nil {
			return err
		}
		t.applied[id] = deltas[id]
	}
	return nil
}

// Snapshot 当前视图（只读）
func (t *Tracker) Snapshot(now int64) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(now)
}

// StartTicker 起一个轮询 goroutine，重复调用不会起第二个
func (t *Tracker) StartTicker(ctx context.Context, interval time.Duration) {
	t.mu.Lock()
	if t.ticking {
		t.mu.Unlock()
		return
	}
	t.ticking = true
	t.mu.Unlock()
	go t.RunTicker(ctx, interval)
}

// RunTicker 按固定间隔驱动 Tick，ctx 取消或跟踪器结束后退出
func (t *Tracker) RunTicker(ctx context.Context, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			t.Tick(now.UnixMilli())
			if t.State() == StateStopped {
				return
			}
		}
	}
}

func (t *Tracker) openSection(kind, taskID string, now int64) {
	s := models.Section{Start: now, Kind: kind}
	if taskID != "" {
		s.TaskID = &taskID
	}
	t.sections = append(t.sections, s)
}

// closeSection 收口末尾的未结束片段；没有就什么都不做
func (t *Tracker) closeSection(now int64) {
	if n := len(t.sections); n > 0 && t.sections[n-1].End == nil {
		end := now
		t.sections[n-1].End = &end
	}
}

func (t *Tracker) snapshotLocked(now int64) Snapshot {
	var worked int64
	for _, s := range t.sections {
		if s.Kind != models.SectionWork {
			continue
		}
		end := now
		if s.End != nil {
			end = *s.End
		}
		worked += (end - s.Start) / 1000
	}
	return Snapshot{
		State:         t.state,
		Date:          t.date,
		CurrentTaskID: t.currentTask,
		WorkedSeconds: worked,
		Sections:      append([]models.Section{}, t.sections...),
	}
}

func (t *Tracker) publish(snap Snapshot) {
	t.mu.Lock()
	listeners := append([]Listener{}, t.listeners...)
	t.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
