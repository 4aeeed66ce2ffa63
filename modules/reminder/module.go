package reminder

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/modules/eventbus"
	"github.com/example/taskhub/modules/notify"
	taskmod "github.com/example/taskhub/modules/task"
	"github.com/go-monolith/mono"
)

const defaultRescanInterval = time.Minute

// Module runs the reminder scheduler. It rescans whenever a task
// changes and on a fixed interval, so newly eligible tasks are picked
// up as the day rolls over.
type Module struct {
	taskMod   *taskmod.Module
	notifyMod *notify.Module
	busMod    *eventbus.Module
	interval  time.Duration

	scheduler *Scheduler
	cancel    context.CancelFunc
	done      chan struct{}
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a reminder module. The task and notify modules
// must be registered ahead of it; busMod may be nil, in which case
// only the periodic rescan runs.
func NewModule(taskMod *taskmod.Module, notifyMod *notify.Module, busMod *eventbus.Module) *Module {
	return &Module{
		taskMod:   taskMod,
		notifyMod: notifyMod,
		busMod:    busMod,
		interval:  defaultRescanInterval,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "reminder"
}

// Start begins scheduling reminders.
func (m *Module) Start(_ context.Context) error {
	source := m.taskMod.GetService()
	if source == nil {
		return fmt.Errorf("task module not started")
	}
	sink := m.notifyMod.GetHub()

	enabled := os.Getenv("REMINDERS_DISABLED") == ""
	m.scheduler = NewScheduler(source, sink, enabled)

	if !enabled {
		log.Println("[reminder] Module started (disabled)")
		return nil
	}

	if m.busMod != nil {
		m.busMod.GetEventBus().SubscribeAll(func(task.Event) {
			m.scheduler.Rescan()
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.rescanLoop(ctx)

	m.scheduler.Rescan()

	log.Println("[reminder] Module started")
	return nil
}

func (m *Module) rescanLoop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.scheduler.Rescan()
		}
	}
}

// Stop cancels armed reminders and the rescan loop.
func (m *Module) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
		select {
		case <-m.done:
		case <-ctx.Done():
			return fmt.Errorf("reminder module stop timed out: %w", ctx.Err())
		}
	}
	if m.scheduler != nil {
		m.scheduler.Close()
	}

	log.Println("[reminder] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.scheduler == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "scheduler not initialized",
		}
	}
	if !m.scheduler.enabled {
		return mono.HealthStatus{
			Healthy: true,
			Message: "reminders disabled",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: fmt.Sprintf("%d reminder(s) armed", m.scheduler.ArmedCount()),
	}
}
