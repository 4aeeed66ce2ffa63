package task

import (
	"context"
	"log"
	"time"

	domain "github.com/example/taskhub/domain/task"
	"github.com/example/taskhub/modules/cache"
	"github.com/example/taskhub/modules/eventbus"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Service implements the task operations: create, list, patch, delete
// and the two toggle actions. Every single-record operation passes
// through the ownership guard; list queries are scoped to the caller.
// Task lists are cached per user (cache-aside) when a cache is
// configured, and every mutation invalidates the owner's entry and
// publishes a task event.
type Service struct {
	repo    *Repository
	cache   *cache.Cache       // nil disables caching
	bus     *eventbus.EventBus // nil disables events
	sfGroup singleflight.Group // prevents cache stampede on list misses
}

// NewService creates a new task service. cache and bus may be nil.
func NewService(repo *Repository, c *cache.Cache, bus *eventbus.EventBus) *Service {
	return &Service{
		repo:  repo,
		cache: c,
		bus:   bus,
	}
}

// listCacheKey returns the cache key for a user's task list.
func listCacheKey(userID string) string {
	return "tasks:" + userID
}

// Create creates a task owned by userID.
func (s *Service) Create(ctx context.Context, userID string, req CreateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &domain.Task{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       domain.StatusNotStarted,
		Urgency:      req.Urgency,
		Category:     req.Category,
		DueDate:      req.DueDate,
		DueTime:      req.DueTime,
		ReminderTime: req.ReminderTime,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, domain.NewCreatedEvent(t))
	return t, nil
}

// List returns all tasks owned by userID. When sorted is true the
// tasks are arranged in display order; otherwise storage order is
// returned and ordering is the client's concern.
func (s *Service) List(ctx context.Context, userID string, sorted bool) ([]domain.Task, error) {
	tasks, err := s.listCached(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sorted {
		return domain.Sort(tasks), nil
	}
	return tasks, nil
}

// listCached reads the user's task list through the cache.
func (s *Service) listCached(ctx context.Context, userID string) ([]domain.Task, error) {
	if s.cache == nil {
		return s.repo.FindByUser(userID)
	}

	key := listCacheKey(userID)

	var cached []domain.Task
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		// Cache errors degrade to a database read.
		log.Printf("[task] Cache error for user %s: %v", userID, err)
	}
	if found {
		return cached, nil
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return s.repo.FindByUser(userID)
	})
	if err != nil {
		return nil, err
	}
	tasks := val.([]domain.Task)

	if err := s.cache.Set(ctx, key, tasks); err != nil {
		log.Printf("[task] Failed to cache tasks for user %s: %v", userID, err)
	}
	return tasks, nil
}

// Update applies a partial patch to the task after the ownership check
// and completed/status reconciliation.
func (s *Service) Update(ctx context.Context, userID, taskID string, patch domain.Patch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	t, err := s.load(userID, taskID)
	if err != nil {
		return nil, err
	}

	patch = domain.Reconcile(patch)
	patch.Apply(t)
	t.UpdatedAt = time.Now()

	if err := s.repo.Save(t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, domain.NewUpdatedEvent(t))
	return t, nil
}

// Delete removes the task after the ownership check.
func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	t, err := s.load(userID, taskID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(t.ID); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, domain.NewDeletedEvent(t.ID, userID))
	return nil
}

// ToggleComplete flips the task's completion, moving status with it.
func (s *Service) ToggleComplete(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.toggle(ctx, userID, taskID, domain.ToggleComplete)
}

// TogglePin flips the task's pinned flag.
func (s *Service) TogglePin(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.toggle(ctx, userID, taskID, domain.TogglePin)
}

func (s *Service) toggle(ctx context.Context, userID, taskID string, flip func(*domain.Task)) (*domain.Task, error) {
	t, err := s.load(userID, taskID)
	if err != nil {
		return nil, err
	}

	flip(t)
	t.UpdatedAt = time.Now()

	if err := s.repo.Save(t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.publish(ctx, domain.NewUpdatedEvent(t))
	return t, nil
}

// FindWithReminders returns, across all users, the incomplete tasks
// carrying a due date and a reminder time. The reminder scheduler
// plans from this set.
func (s *Service) FindWithReminders() ([]domain.Task, error) {
	return s.repo.FindWithReminders()
}

// load fetches a task and runs the ownership guard.
func (s *Service) load(userID, taskID string) (*domain.Task, error) {
	t, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(userID, t); err != nil {
		return nil, err
	}
	return t, nil
}

// invalidate drops the user's cached task list.
func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey(userID)); err != nil {
		log.Printf("[task] Failed to invalidate cache for user %s: %v", userID, err)
	}
}

// publish emits a task event if a bus is configured.
func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}
