package task

import (
	"time"

	domain "github.com/example/taskhub/domain/task"
)

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	DueDate      *time.Time      `json:"dueDate,omitempty"`
	DueTime      string          `json:"dueTime,omitempty"`
	ReminderTime string          `json:"reminderTime,omitempty"`
	Urgency      domain.Urgency  `json:"urgency,omitempty"`
	Category     domain.Category `json:"category,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// Validate checks the creation request.
func (r CreateTaskRequest) Validate() error {
	if r.Title == "" {
		return domain.ErrTitleRequired
	}
	if r.Urgency != "" && !r.Urgency.IsValid() {
		return domain.ErrInvalidUrgency
	}
	if r.Category != "" && !r.Category.IsValid() {
		return domain.ErrInvalidCategory
	}
	return nil
}
