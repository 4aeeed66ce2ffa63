package task

import "time"

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
	Status       *Status    `json:"status,omitempty"`
	Pinned       *bool      `json:"pinned,omitempty"`
	Urgency      *Urgency   `json:"urgency,omitempty"`
	Category     *Category  `json:"category,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	DueTime      *string    `json:"dueTime,omitempty"`
	ReminderTime *string    `json:"reminderTime,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// Validate checks enum fields on the patch.
func (p Patch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return ErrTitleRequired
	}
	if p.Status != nil && !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	if p.Urgency != nil && *p.Urgency != "" && !p.Urgency.IsValid() {
		return ErrInvalidUrgency
	}
	if p.Category != nil && *p.Category != "" && !p.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

// Reconcile derives a consistent completed value for a direct field
// update so the completed == (status == completed) invariant holds.
// A patch that sets status to completed forces completed true; any
// other present status forces completed false; a patch without status
// leaves completed alone.
func Reconcile(p Patch) Patch {
	if p.Status == nil {
		return p
	}
	completed := *p.Status == StatusCompleted
	p.Completed = &completed
	return p
}

// Apply writes the patch onto t. Callers must Reconcile first; Apply
// performs no invariant maintenance of its own.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Pinned != nil {
		t.Pinned = *p.Pinned
	}
	if p.Urgency != nil {
		t.Urgency = *p.Urgency
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
	if p.ReminderTime != nil {
		t.ReminderTime = *p.ReminderTime
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}

// ToggleComplete flips the completed flag and moves status with it.
// Completing sets status to completed; un-completing returns the task
// to in-progress, not not-started. The asymmetry is deliberate: a task
// being uncompleted is being resumed.
func ToggleComplete(t *Task) {
	t.Completed = !t.Completed
	if t.Completed {
		t.Status = StatusCompleted
	} else {
		t.Status = StatusInProgress
	}
}

// TogglePin flips the pinned flag. Completion state is untouched.
func TogglePin(t *Task) {
	t.Pinned = !t.Pinned
}
