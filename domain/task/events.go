package task

import "time"

// EventType represents the type of task event.
type EventType string

const (
	// EventTypeTaskCreated indicates a task was created.
	EventTypeTaskCreated EventType = "task.created"
	// EventTypeTaskUpdated indicates a task was updated, including the
	// toggle-complete and toggle-pin actions.
	EventTypeTaskUpdated EventType = "task.updated"
	// EventTypeTaskDeleted indicates a task was deleted.
	EventTypeTaskDeleted EventType = "task.deleted"
)

// Event is published on every task mutation. The reminder scheduler
// rescans on updates; the cache layer invalidates by UserID.
type Event struct {
	Type      EventType `json:"type"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Task      *Task     `json:"task,omitempty"`
}

// NewCreatedEvent creates a task created event.
func NewCreatedEvent(t *Task) Event {
	return Event{
		Type:      EventTypeTaskCreated,
		TaskID:    t.ID,
		UserID:    t.UserID,
		Timestamp: time.Now(),
		Task:      t,
	}
}

// NewUpdatedEvent creates a task updated event.
func NewUpdatedEvent(t *Task) Event {
	return Event{
		Type:      EventTypeTaskUpdated,
		TaskID:    t.ID,
		UserID:    t.UserID,
		Timestamp: time.Now(),
		Task:      t,
	}
}

// NewDeletedEvent creates a task deleted event.
func NewDeletedEvent(taskID, userID string) Event {
	return Event{
		Type:      EventTypeTaskDeleted,
		TaskID:    taskID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}
