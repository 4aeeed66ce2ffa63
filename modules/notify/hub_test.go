package notify

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/example/taskhub/domain/task"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHub_DeliverRoutesToOwner(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	tab1 := &fakeConn{}
	tab2 := &fakeConn{}
	other := &fakeConn{}

	hub.Register(&Client{ID: "c1", UserID: "u1", Conn: tab1})
	hub.Register(&Client{ID: "c2", UserID: "u1", Conn: tab2})
	hub.Register(&Client{ID: "c3", UserID: "u2", Conn: other})
	waitFor(t, func() bool { return hub.ClientCount() == 3 })

	hub.Deliver(task.Notification{
		TaskID:    "t1",
		UserID:    "u1",
		TriggerAt: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		Title:     "Reminder: Pay rent",
		Body:      task.DefaultReminderBody,
	})

	waitFor(t, func() bool { return tab1.frameCount() == 1 && tab2.frameCount() == 1 })
	if other.frameCount() != 0 {
		t.Errorf("notification leaked to another user's connection")
	}

	var msg Message
	tab1.mu.Lock()
	frame := tab1.frames[0]
	tab1.mu.Unlock()
	if err := json.Unmarshal(frame, &msg); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}
	if msg.Type != "reminder" {
		t.Errorf("Type = %q, want %q", msg.Type, "reminder")
	}
	if msg.Title != "Reminder: Pay rent" {
		t.Errorf("Title = %q, want %q", msg.Title, "Reminder: Pay rent")
	}
	if msg.Body != task.DefaultReminderBody {
		t.Errorf("Body = %q, want %q", msg.Body, task.DefaultReminderBody)
	}
}

func TestHub_DeliverWithoutConnections(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// Nobody is connected; delivery is silently dropped.
	hub.Deliver(task.Notification{TaskID: "t1", UserID: "ghost"})

	time.Sleep(20 * time.Millisecond)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := &fakeConn{}
	client := &Client{ID: "c1", UserID: "u1", Conn: conn}

	hub.Register(client)
	waitFor(t, func() bool { return hub.UserClientCount("u1") == 1 })

	hub.Unregister(client)
	waitFor(t, func() bool { return hub.UserClientCount("u1") == 0 })

	hub.Deliver(task.Notification{TaskID: "t1", UserID: "u1"})
	time.Sleep(20 * time.Millisecond)
	if conn.frameCount() != 0 {
		t.Errorf("unregistered connection received %d frames", conn.frameCount())
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	conn := &fakeConn{}
	hub.Register(&Client{ID: "c1", UserID: "u1", Conn: conn})
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	hub.Wait()

	conn.mu.Lock()
	closed := conn.closed
	conn.mu.Unlock()
	if !closed {
		t.Error("connection not closed on shutdown")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() after shutdown = %d, want 0", hub.ClientCount())
	}
}
