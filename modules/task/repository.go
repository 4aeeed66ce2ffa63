package task

import (
	"errors"
	"fmt"

	domain "github.com/example/taskhub/domain/task"
	"gorm.io/gorm"
)

// Repository handles task persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Create saves a new task.
func (r *Repository) Create(t *domain.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID. The caller decides whether the
// requester may see it; this lookup is deliberately unscoped so the
// ownership guard can distinguish not-found from denied.
func (r *Repository) FindByID(id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindByUser retrieves all tasks owned by userID. Ownership is
// enforced in the query itself, never by post-filtering.
func (r *Repository) FindByUser(userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.Where("user_id = ?", userID).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Save persists the full task record. Update paths load, mutate and
// save so a patch is applied all-or-nothing.
func (r *Repository) Save(t *domain.Task) error {
	if err := r.db.Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task by ID.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindWithReminders retrieves, across all users, the incomplete tasks
// that carry both a due date and a reminder time. The reminder
// scheduler narrows these down by date.
func (r *Repository) FindWithReminders() ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.
		Where("completed = ?", false).
		Where("due_date IS NOT NULL").
		Where("reminder_time <> ''").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks with reminders: %w", err)
	}
	return tasks, nil
}
