// Package reminder schedules due-task notifications. It plans
// reminders from the task store, arms a timer per upcoming
// notification and hands fired notifications to a Notifier for
// delivery. Delivery is best effort; a missed or dropped reminder is
// never an error.
package reminder

import (
	"log"
	"sync"
	"time"

	"github.com/example/taskhub/domain/task"
)

// TaskSource yields the tasks that may need a reminder.
type TaskSource interface {
	FindWithReminders() ([]task.Task, error)
}

// Notifier delivers a fired reminder to its owner.
type Notifier interface {
	Deliver(n task.Notification)
}

// Scheduler arms one timer per planned notification. Rescans
// reconcile the armed set against the current plan, so repeated
// rescans never double-arm a reminder and disarm reminders whose task
// was completed, deleted or rescheduled.
type Scheduler struct {
	source  TaskSource
	sink    Notifier
	enabled bool

	mu    sync.Mutex
	armed map[string]*time.Timer
	now   func() time.Time // swapped in tests
}

// NewScheduler creates a scheduler. When enabled is false every
// operation is a no-op, mirroring a user who declined notifications.
func NewScheduler(source TaskSource, sink Notifier, enabled bool) *Scheduler {
	return &Scheduler{
		source:  source,
		sink:    sink,
		enabled: enabled,
		armed:   make(map[string]*time.Timer),
		now:     time.Now,
	}
}

// Rescan re-plans reminders from the task store and reconciles the
// armed timers against the plan.
func (s *Scheduler) Rescan() {
	if !s.enabled {
		return
	}

	tasks, err := s.source.FindWithReminders()
	if err != nil {
		log.Printf("[reminder] Rescan failed to load tasks: %v", err)
		return
	}

	now := s.now()
	plan := task.PlanReminders(tasks, now)

	wanted := make(map[string]task.Notification, len(plan))
	for _, n := range plan {
		wanted[n.Key()] = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Disarm reminders that fell out of the plan.
	for key, timer := range s.armed {
		if _, ok := wanted[key]; !ok {
			timer.Stop()
			delete(s.armed, key)
		}
	}

	// Arm the new ones.
	for key, n := range wanted {
		if _, ok := s.armed[key]; ok {
			continue
		}
		s.armed[key] = time.AfterFunc(n.TriggerAt.Sub(now), s.fire(key, n))
	}

	log.Printf("[reminder] Rescan complete: %d reminder(s) armed", len(s.armed))
}

func (s *Scheduler) fire(key string, n task.Notification) func() {
	return func() {
		s.mu.Lock()
		delete(s.armed, key)
		s.mu.Unlock()

		log.Printf("[reminder] Firing reminder for task %s", n.TaskID)
		s.sink.Deliver(n)
	}
}

// ArmedCount reports how many reminders are currently armed.
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// Close stops all armed timers.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.armed {
		timer.Stop()
		delete(s.armed, key)
	}
}
