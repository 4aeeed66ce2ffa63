package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tests talk to a real Redis and skip when none is running.
const testRedisAddr = "localhost:6379"

func setupTestCache(t *testing.T, prefix string) (*Cache, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: testRedisAddr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	cleanupKeys(ctx, client, prefix+"*")

	c := New(client, prefix, 5*time.Minute)

	cleanup := func() {
		cleanupKeys(ctx, client, prefix+"*")
		client.Close()
	}
	return c, cleanup
}

func cleanupKeys(ctx context.Context, client *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}

func TestCache_GetSetDelete(t *testing.T) {
	c, cleanup := setupTestCache(t, "taskhub-test:")
	defer cleanup()
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var got payload
	found, err := c.Get(ctx, "missing", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found a key that was never set")
	}

	want := payload{Name: "tasks", Count: 3}
	if err := c.Set(ctx, "k1", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	found, err = c.Get(ctx, "k1", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() missed a key that was just set")
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	found, err = c.Get(ctx, "k1", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found a deleted key")
	}
}

func TestCache_DeletePattern(t *testing.T) {
	c, cleanup := setupTestCache(t, "taskhub-test:")
	defer cleanup()
	ctx := context.Background()

	for _, key := range []string{"tasks:u1", "tasks:u2", "other:u1"} {
		if err := c.Set(ctx, key, "x"); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := c.DeletePattern(ctx, "tasks:*"); err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}

	var s string
	for _, key := range []string{"tasks:u1", "tasks:u2"} {
		if found, _ := c.Get(ctx, key, &s); found {
			t.Errorf("key %q survived DeletePattern", key)
		}
	}
	if found, _ := c.Get(ctx, "other:u1", &s); !found {
		t.Error("DeletePattern removed a non-matching key")
	}
}

func TestCache_Stats(t *testing.T) {
	c, cleanup := setupTestCache(t, "taskhub-test:")
	defer cleanup()
	ctx := context.Background()

	var s string
	_, _ = c.Get(ctx, "nope", &s)
	_ = c.Set(ctx, "k1", "v")
	_, _ = c.Get(ctx, "k1", &s)

	stats := c.GetStats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.TotalGets != 2 {
		t.Errorf("TotalGets = %d, want 2", stats.TotalGets)
	}
}
