package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "taskhub:"
	defaultTTL    = 5 * time.Minute
)

// Module provides the Redis cache as a mono module. The cache is
// optional: when Redis is unreachable at startup the module degrades to
// a disabled cache and the task service reads straight from the
// database.
type Module struct {
	cache     *Cache
	client    *redis.Client
	redisAddr string
	enabled   bool
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new cache module.
func NewModule(redisAddr string) *Module {
	return &Module{redisAddr: redisAddr}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Start connects to Redis and creates the cache.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] Redis unavailable at %s, caching disabled: %v", m.redisAddr, err)
		m.client.Close()
		m.client = nil
		return nil
	}

	m.cache = New(m.client, defaultPrefix, defaultTTL)
	m.enabled = true
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.redisAddr, defaultPrefix, defaultTTL)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[cache] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if !m.enabled {
		return mono.HealthStatus{
			Healthy: true,
			Message: "caching disabled",
		}
	}
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"stats": m.cache.GetStats(),
		},
	}
}

// GetCache returns the cache instance, or nil when caching is disabled.
func (m *Module) GetCache() *Cache {
	if !m.enabled {
		return nil
	}
	return m.cache
}
