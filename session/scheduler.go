package session

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms fn to run once after d. It mirrors time.AfterFunc so tests
// can substitute a manual clock.
type AfterFunc func(d time.Duration, fn func()) Timer

func realAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Task is a handle to one armed tick.
type Task struct {
	gen   uint64
	timer Timer
	done  chan struct{}
	once  sync.Once
}

// Generation identifies the tick this task will deliver.
func (t *Task) Generation() uint64 {
	return t.gen
}

// Cancel stops the task. Canceling a task that already fired or was already
// canceled is a no-op.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		t.timer.Stop()
		close(t.done)
	})
}

// Scheduler delivers at most one pending tick at a time.
//
// Arm always cancels the previous task before arming a new one, and every
// delivery carries the generation it was armed with, so a fire that raced a
// cancel is recognised as stale by Fired and dropped. This keeps a single
// tick chain alive across rapid pause/resume and reset sequences.
type Scheduler struct {
	mu        sync.Mutex
	afterFunc AfterFunc
	gen       uint64
	current   *Task
	fires     chan uint64
}

// NewScheduler returns a scheduler backed by af, or time.AfterFunc if af is nil.
func NewScheduler(af AfterFunc) *Scheduler {
	if af == nil {
		af = realAfterFunc
	}
	return &Scheduler{
		afterFunc: af,
		fires:     make(chan uint64, 1),
	}
}

// C delivers the generation of each task as it fires.
func (s *Scheduler) C() <-chan uint64 {
	return s.fires
}

// Arm schedules a tick after d, replacing any armed task.
func (s *Scheduler) Arm(d time.Duration) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Cancel()
	s.gen++
	task := &Task{gen: s.gen, done: make(chan struct{})}
	task.timer = s.afterFunc(d, func() {
		select {
		case <-task.done:
			return
		default:
		}
		select {
		case s.fires <- task.gen:
		case <-task.done:
		}
	})
	s.current = task
	return task
}

// Armed reports whether a task is pending.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Cancel stops the armed task, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Cancel()
	s.current = nil
}

// Fired consumes a delivery. It returns true only when gen belongs to the
// currently armed task; that task is then considered spent.
func (s *Scheduler) Fired(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.gen != gen {
		return false
	}
	s.current.Cancel()
	s.current = nil
	return true
}
