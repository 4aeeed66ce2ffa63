// Package task provides the task domain: the entity, ownership rules,
// completion/status reconciliation, display ordering, and reminder planning.
package task

import (
	"time"
)

// Status represents the progress of a task.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusHalfDone   Status = "half-done"
	StatusAlmostDone Status = "almost-done"
	StatusCompleted  Status = "completed"
)

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusHalfDone, StatusAlmostDone, StatusCompleted:
		return true
	default:
		return false
	}
}

// Urgency represents how urgent a task is.
type Urgency string

const (
	UrgencyNoRush   Urgency = "no-rush"
	UrgencyLow      Urgency = "low"
	UrgencyModerate Urgency = "moderate"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// IsValid returns true if the urgency is a known value.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyNoRush, UrgencyLow, UrgencyModerate, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// Category represents the life area a task belongs to.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryOffice   Category = "office"
	CategorySideGig  Category = "side-gig"
	CategoryFamily   Category = "family"
	CategoryOther    Category = "other"
)

// IsValid returns true if the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPersonal, CategoryOffice, CategorySideGig, CategoryFamily, CategoryOther:
		return true
	default:
		return false
	}
}

// Task represents a task owned by a single user.
//
// DueDate carries no time of day; DueTime and ReminderTime are "HH:MM"
// strings that are only meaningful when DueDate is set.
type Task struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	UserID       string     `gorm:"index;size:36;not null" json:"userId"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"size:1000" json:"description"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	Status       Status     `gorm:"size:20;not null;default:not-started" json:"status"`
	Pinned       bool       `gorm:"not null;default:false" json:"pinned"`
	Urgency      Urgency    `gorm:"size:20" json:"urgency,omitempty"`
	Category     Category   `gorm:"size:20" json:"category,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	DueTime      string     `gorm:"size:5" json:"dueTime,omitempty"`
	ReminderTime string     `gorm:"size:5" json:"reminderTime,omitempty"`
	Notes        string     `gorm:"size:1000" json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
