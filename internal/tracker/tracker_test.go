package tracker_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
	"github.com/zeitwerk-app/zeitwerk-be/internal/tracker"
)

type fakeTasks struct {
	mu     sync.Mutex
	tasks  []models.Task
	added  map[string]int64
	calls  int
	failID string // 该任务入账时报错
}

func newFakeTasks(ids ...string) *fakeTasks {
	f := &fakeTasks{added: map[string]int64{}}
	for _, id := range ids {
		f.tasks = append(f.tasks, models.Task{ID: id, Title: id})
	}
	return f
}

func (f *fakeTasks) List(ctx context.Context) ([]models.Task, error) {
	return f.tasks, nil
}

func (f *fakeTasks) AddTrackedTime(ctx context.Context, id string, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failID {
		return errors.New("task store down")
	}
	f.added[id] += delta
	f.calls++
	return nil
}

type fakeDays struct {
	mu       sync.Mutex
	saved    []*models.Workday
	failures int
}

func (f *fakeDays) Save(ctx context.Context, day *models.Workday) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("store down")
	}
	if day.ID == "" {
		day.ID = "d1"
	}
	f.saved = append(f.saved, day)
	return nil
}

type fakeNotify struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotify) Notify(userID, severity, message, action string) {
	f.mu.Lock()
	f.events = append(f.events, severity)
	f.mu.Unlock()
}

func newTracker(tasks *fakeTasks, days *fakeDays, notify *fakeNotify) *tracker.Tracker {
	return tracker.New("u1", "2026-08-31", tasks, days, notify)
}

func TestLifecycleSections(t *testing.T) {
	tasks := newFakeTasks("T1", "T2")
	days := &fakeDays{}
	notify := &fakeNotify{}
	tr := newTracker(tasks, days, notify)

	snap := tr.Start("T1", 0)
	if snap.State != tracker.StateRunning {
		t.Fatalf("state = %q, want running", snap.State)
	}
	if len(snap.Sections) != 1 || !snap.Sections[0].Open() {
		t.Fatalf("want one open section, got %+v", snap.Sections)
	}

	snap = tr.Pause(1000)
	if snap.State != tracker.StatePaused {
		t.Fatalf("state = %q, want paused", snap.State)
	}
	if len(snap.Sections) != 2 {
		t.Fatalf("want 2 sections, got %d", len(snap.Sections))
	}
	work := snap.Sections[0]
	if work.Start != 0 || work.End == nil || *work.End != 1000 || work.Kind != models.SectionWork {
		t.Errorf("work section = %+v, want {0,1000,work}", work)
	}
	pause := snap.Sections[1]
	if pause.Start != 1000 || pause.End != nil || pause.Kind != models.SectionPause {
		t.Errorf("pause section = %+v, want open {1000,nil,pause}", pause)
	}

	snap = tr.Resume("T2", 2000)
	if snap.State != tracker.StateRunning || snap.CurrentTaskID != "T2" {
		t.Fatalf("resume: state=%q task=%q", snap.State, snap.CurrentTaskID)
	}

	snap, err := tr.Stop(context.Background(), 3000)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if snap.State != tracker.StateStopped {
		t.Fatalf("state = %q, want stopped", snap.State)
	}

	// 片段连续无缝、无重叠、全部收口
	for i, s := range snap.Sections {
		if s.End == nil {
			t.Fatalf("section %d still open after stop", i)
		}
		if i > 0 && s.Start != *snap.Sections[i-1].End {
			t.Errorf("gap between sections %d and %d", i-1, i)
		}
	}
}

func TestAtMostOneOpenSection(t *testing.T) {
	tasks := newFakeTasks("T1")
	tr := newTracker(tasks, &fakeDays{}, &fakeNotify{})

	events := []func(){
		func() { tr.Start("T1", 0) },
		func() { tr.Pause(100) },
		func() { tr.Resume("T1", 200) },
		func() { tr.Pause(300) },
		func() { tr.Resume("T1", 400) },
	}
	for _, ev := range events {
		ev()
		open := 0
		snap := tr.Snapshot(1000)
		for i, s := range snap.Sections {
			if s.Open() {
				open++
				if i != len(snap.Sections)-1 {
					t.Fatalf("open section at %d is not last", i)
				}
			}
		}
		if open > 1 {
			t.Fatalf("%d open sections", open)
		}
	}
}

func TestGuards(t *testing.T) {
	tasks := newFakeTasks("T1")
	tr := newTracker(tasks, &fakeDays{}, &fakeNotify{})

	// 没有任务 id 的 Start 静默不处理
	snap := tr.Start("", 0)
	if snap.State != tracker.StateIdle || len(snap.Sections) != 0 {
		t.Fatalf("start without task changed state: %+v", snap)
	}
	// Idle 时 Pause 不处理
	snap = tr.Pause(100)
	if snap.State != tracker.StateIdle {
		t.Fatalf("pause while idle: %q", snap.State)
	}

	tr.Start("T1", 0)
	// Running 时重复 Start 不开新片段
	snap = tr.Start("T1", 100)
	if len(snap.Sections) != 1 {
		t.Fatalf("double start appended a section")
	}

	tr.Pause(200)
	// 没有任务 id 的 Resume 静默不处理
	snap = tr.Resume("", 300)
	if snap.State != tracker.StatePaused {
		t.Fatalf("resume without task: %q", snap.State)
	}
}

func TestTickOnlyWhileRunning(t *testing.T) {
	tasks := newFakeTasks("T1")
	tr := newTracker(tasks, &fakeDays{}, &fakeNotify{})

	var mu sync.Mutex
	ticks := 0
	tr.Subscribe(func(s tracker.Snapshot) {
		mu.Lock()
		ticks++
		mu.Unlock()
	})

	tr.Tick(1000) // idle 不推送
	mu.Lock()
	if ticks != 0 {
		t.Fatalf("tick while idle published")
	}
	mu.Unlock()

	tr.Start("T1", 0) // 转移本身推一次
	tr.Tick(5000)
	mu.Lock()
	got := ticks
	mu.Unlock()
	if got != 2 {
		t.Fatalf("ticks = %d, want 2", got)
	}

	tr.Pause(10000)
	before := tr.Snapshot(20000).WorkedSeconds
	tr.Tick(20000) // paused 不推送也不计时
	after := tr.Snapshot(20000).WorkedSeconds
	if before != after {
		t.Fatalf("worked changed while paused: %d -> %d", before, after)
	}
	if before != 10 {
		t.Fatalf("worked = %d, want 10", before)
	}
}

func TestWorkedSecondsExample(t *testing.T) {
	tasks := newFakeTasks("T1")
	tr := newTracker(tasks, &fakeDays{}, &fakeNotify{})

	tr.Start("T1", 0)
	tr.Pause(3600000)
	snap, err := tr.Stop(context.Background(), 5400000)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	// work {0,3600000} + pause {3600000,5400000} = 3600 秒工作时间
	if snap.WorkedSeconds != 3600 {
		t.Fatalf("worked = %d, want 3600", snap.WorkedSeconds)
	}
}

func TestStopHandoff(t *testing.T) {
	tasks := newFakeTasks("T1")
	days := &fakeDays{}
	notify := &fakeNotify{}
	tr := newTracker(tasks, days, notify)

	tr.Start("T1", 0)
	tr.Pause(60000)
	tr.Resume("T1", 120000)
	if _, err := tr.Stop(context.Background(), 180000); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if got := tasks.added["T1"]; got != 120 {
		t.Errorf("delta T1 = %d, want 120", got)
	}
	if len(days.saved) != 1 {
		t.Fatalf("saved %d workdays, want 1", len(days.saved))
	}
	day := days.saved[0]
	if day.Date != "2026-08-31" || day.UserID != "u1" || len(day.Sections) != 3 {
		t.Errorf("saved day = %+v", day)
	}
	if len(notify.events) != 1 || notify.events[0] != models.SeveritySuccess {
		t.Errorf("notify events = %v", notify.events)
	}
}

func TestStopIdempotent(t *testing.T) {
	tasks := newFakeTasks("T1")
	days := &fakeDays{}
	tr := newTracker(tasks, days, &fakeNotify{})

	tr.Start("T1", 0)
	if _, err := tr.Stop(context.Background(), 60000); err != nil {
		t.Fatalf("stop: %v", err)
	}
	callsAfterFirst := tasks.calls
	deltaAfterFirst := tasks.added["T1"]

	snap, err := tr.Stop(context.Background(), 120000)
	if err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if snap.State != tracker.StateStopped {
		t.Fatalf("state = %q", snap.State)
	}
	if tasks.calls != callsAfterFirst || tasks.added["T1"] != deltaAfterFirst {
		t.Fatalf("second stop re-applied deltas")
	}
	if len(days.saved) != 1 {
		t.Fatalf("second stop re-saved the day")
	}
}

func TestStopRetryAfterSaveFailure(t *testing.T) {
	tasks := newFakeTasks("T1")
	days := &fakeDays{failures: 1}
	notify := &fakeNotify{}
	tr := newTracker(tasks, days, notify)

	tr.Start("T1", 0)
	_, err := tr.Stop(context.Background(), 60000)
	if err == nil {
		t.Fatal("expected save failure")
	}
	if tr.State() == tracker.StateStopped {
		t.Fatal("stopped despite failed save")
	}
	if len(notify.events) != 1 || notify.events[0] != models.SeverityError {
		t.Fatalf("notify events = %v", notify.events)
	}

	// 用户重试：这次成功，增量只加一次
	snap, err := tr.Stop(context.Background(), 70000)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if snap.State != tracker.StateStopped {
		t.Fatalf("state = %q", snap.State)
	}
	if tasks.added["T1"] != 60 {
		t.Fatalf("delta = %d, want 60", tasks.added["T1"])
	}
	if len(days.saved) != 1 {
		t.Fatalf("saved %d times, want 1", len(days.saved))
	}
}

func TestStopWhileIdle(t *testing.T) {
	tasks := newFakeTasks("T1")
	tr := newTracker(tasks, &fakeDays{}, &fakeNotify{})
	if _, err := tr.Stop(context.Background(), 0); !errors.Is(err, tracker.ErrNotStarted) {
		t.Fatalf("err = %v, want ErrNotStarted", err)
	}
}

func TestManagerRecycling(t *testing.T) {
	tasks := newFakeTasks("T1")
	m := tracker.NewManager(tasks, &fakeDays{}, &fakeNotify{})

	a := m.ForUser("u1", "2026-08-31")
	if m.ForUser("u1", "2026-08-31") != a {
		t.Fatal("same day returned a different instance")
	}
	if m.Peek("u1") != a {
		t.Fatal("peek missed the live instance")
	}

	a.Start("T1", 0)
	if _, err := a.Stop(context.Background(), 1000); err != nil {
		t.Fatalf("stop: %v", err)
	}
	// Stopped 是终态：下次取会拿到新实例
	b := m.ForUser("u1", "2026-08-31")
	if b == a {
		t.Fatal("stopped tracker was reused")
	}
	if b.State() != tracker.StateIdle {
		t.Fatalf("fresh tracker state = %q", b.State())
	}

	// 还没开始的实例过期就换新
	c := m.ForUser("u1", "2026-09-01")
	if c == b {
		t.Fatal("stale idle tracker survived across days")
	}
	if c.Date() != "2026-09-01" {
		t.Fatalf("fresh tracker date = %q", c.Date())
	}
}

func TestManagerKeepsRunningTrackerAcrossMidnight(t *testing.T) {
	tasks := newFakeTasks("T1")
	days := &fakeDays{}
	m := tracker.NewManager(tasks, days, &fakeNotify{})

	old := m.ForUser("u1", "2026-08-31")
	old.Start("T1", 0)

	// 过了午夜：活动中的会话必须还能找到，不能悄悄换新丢掉进度
	if got := m.Peek("u1"); got != old {
		t.Fatalf("peek after midnight = %v, want the running instance", got)
	}
	if got := m.ForUser("u1", "2026-09-01"); got != old {
		t.Fatal("running tracker was replaced across midnight")
	}

	// 结束后片段记在开始那天
	if _, err := old.Stop(context.Background(), 3600000); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if len(days.saved) != 1 || days.saved[0].Date != "2026-08-31" {
		t.Fatalf("saved = %+v, want one day dated 2026-08-31", days.saved)
	}

	// 结束之后第二天才换新实例
	next := m.ForUser("u1", "2026-09-01")
	if next == old || next.Date() != "2026-09-01" {
		t.Fatalf("next tracker = %v date=%q", next, next.Date())
	}
}

func TestStopRetryCountsLaterWork(t *testing.T) {
	tasks := newFakeTasks("T1", "T2")
	days := &fakeDays{}
	tr := newTracker(tasks, days, &fakeNotify{})

	tr.Start("T1", 0)
	tr.Pause(60000)
	tr.Resume("T2", 60000)

	// T1 的 60 秒已入账，T2 入账时挂了
	tasks.failID = "T2"
	if _, err := tr.Stop(context.Background(), 120000); err == nil {
		t.Fatal("expected task store failure")
	}

	// 用户没有干等：失败后又在 T1 上干了 60 秒
	tr.Pause(120000)
	tr.Resume("T1", 180000)

	tasks.failID = ""
	snap, err := tr.Stop(context.Background(), 240000)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if snap.State != tracker.StateStopped {
		t.Fatalf("state = %q", snap.State)
	}
	// T1 = 60 + 60，第一次入账的部分不重复也不吞掉新增量
	if tasks.added["T1"] != 120 {
		t.Fatalf("delta T1 = %d, want 120", tasks.added["T1"])
	}
	if tasks.added["T2"] != 60 {
		t.Fatalf("delta T2 = %d, want 60", tasks.added["T2"])
	}
	// 两次 Save 落的是同一条记录
	if len(days.saved) != 2 || days.saved[0].ID != days.saved[1].ID {
		t.Fatalf("saved = %+v, want the same record twice", days.saved)
	}
}
