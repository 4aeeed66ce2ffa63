package task

import (
	"context"
	"fmt"
	"log"

	"github.com/example/taskhub/modules/cache"
	"github.com/example/taskhub/modules/eventbus"
	"github.com/go-monolith/mono"
	"gorm.io/gorm"
)

// Module provides task management services.
type Module struct {
	db       *gorm.DB
	cacheMod *cache.Module
	busMod   *eventbus.Module
	service  *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new task module backed by the shared database
// handle. The cache and eventbus modules are optional collaborators;
// pass nil to run without caching or events. Their resources are
// resolved at Start, so they must be registered ahead of this module.
func NewModule(db *gorm.DB, cacheMod *cache.Module, busMod *eventbus.Module) *Module {
	return &Module{db: db, cacheMod: cacheMod, busMod: busMod}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "task"
}

// Start initializes the task module.
func (m *Module) Start(_ context.Context) error {
	repo := NewRepository(m.db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate tasks table: %w", err)
	}

	var c *cache.Cache
	if m.cacheMod != nil {
		c = m.cacheMod.GetCache()
	}
	var bus *eventbus.EventBus
	if m.busMod != nil {
		bus = m.busMod.GetEventBus()
	}
	m.service = NewService(repo, c, bus)

	log.Println("[task] Module started")
	return nil
}

// Stop shuts down the module. The database handle is owned by main,
// so it is not closed here.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// GetService returns the task service for direct wiring into other
// modules. Only valid after Start.
func (m *Module) GetService() *Service {
	return m.service
}
