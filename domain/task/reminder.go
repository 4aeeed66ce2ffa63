package task

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultReminderBody is used when a task has no description.
const DefaultReminderBody = "Task due soon!"

// Notification is a reminder to be delivered to a task's owner at
// TriggerAt. Key identifies the (task, instant) pair so a rescan does
// not arm the same reminder twice.
type Notification struct {
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	TriggerAt time.Time `json:"triggerAt"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
}

// Key returns the idempotency key for the notification.
func (n Notification) Key() string {
	return n.TaskID + "|" + n.TriggerAt.UTC().Format(time.RFC3339)
}

// PlanReminders computes the notifications to arm for tasks, relative
// to now. A task is eligible when it is incomplete, has both a due date
// and a reminder time, and its due date is not before today. The
// reminder instant is the due date's calendar day with the "HH:MM"
// reminder time overlaid; instants not strictly in the future are
// dropped, and malformed time strings skip the task without failing
// the batch.
func PlanReminders(tasks []Task, now time.Time) []Notification {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var planned []Notification
	for _, t := range tasks {
		if t.Completed || t.DueDate == nil || t.ReminderTime == "" {
			continue
		}
		if t.DueDate.Before(startOfDay) {
			continue
		}

		hour, minute, err := parseClock(t.ReminderTime)
		if err != nil {
			continue
		}

		d := *t.DueDate
		triggerAt := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, now.Location())
		if !triggerAt.After(now) {
			continue
		}

		body := t.Description
		if body == "" {
			body = DefaultReminderBody
		}
		planned = append(planned, Notification{
			TaskID:    t.ID,
			UserID:    t.UserID,
			TriggerAt: triggerAt,
			Title:     "Reminder: " + t.Title,
			Body:      body,
		})
	}
	return planned
}

// parseClock parses a zero-padded 24-hour "HH:MM" string.
func parseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("invalid clock string %q", s)
	}
	hour, err = strconv.Atoi(s[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock string %q: %w", s, err)
	}
	minute, err = strconv.Atoi(s[3:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock string %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock string %q out of range", s)
	}
	return hour, minute, nil
}
