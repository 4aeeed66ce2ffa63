// Package notify delivers reminder notifications to connected
// WebSocket clients. Each user may hold several open connections
// (multiple tabs or devices); a notification fans out to all of them.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/taskhub/domain/task"
	"github.com/gofiber/contrib/websocket"
)

// wsConn is the slice of *websocket.Conn the hub needs. Tests plug in
// a recording fake.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a connected WebSocket client.
type Client struct {
	ID     string
	UserID string
	Conn   wsConn
}

// Message is the wire frame sent to clients.
type Message struct {
	Type      string    `json:"type"`
	TaskID    string    `json:"taskId,omitempty"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub tracks WebSocket connections grouped by user and routes
// notifications to the owner's connections only.
type Hub struct {
	clients    map[string]*Client         // clientID -> Client
	users      map[string]map[string]bool // userID -> set of clientIDs
	register   chan *Client
	unregister chan *Client
	deliver    chan task.Notification
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		users:      make(map[string]map[string]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan task.Notification, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It accepts a context for graceful shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[notify] Hub shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case n := <-h.deliver:
			h.handleDeliver(n)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.users = make(map[string]map[string]bool)
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if h.users[client.UserID] == nil {
		h.users[client.UserID] = make(map[string]bool)
	}
	h.users[client.UserID][client.ID] = true
	log.Printf("[notify] Client %s registered for user %s", client.ID, client.UserID)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	if h.users[client.UserID] != nil {
		delete(h.users[client.UserID], client.ID)
		if len(h.users[client.UserID]) == 0 {
			delete(h.users, client.UserID)
		}
	}
	log.Printf("[notify] Client %s unregistered", client.ID)
}

// handleDeliver fans a notification out to the owner's connections.
// Users without an open connection simply miss the reminder.
func (h *Hub) handleDeliver(n task.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clientIDs, ok := h.users[n.UserID]
	if !ok {
		return
	}

	data, err := json.Marshal(Message{
		Type:      "reminder",
		TaskID:    n.TaskID,
		Title:     n.Title,
		Body:      n.Body,
		Timestamp: n.TriggerAt,
	})
	if err != nil {
		log.Printf("[notify] Failed to marshal notification: %v", err)
		return
	}

	for clientID := range clientIDs {
		client, ok := h.clients[clientID]
		if !ok {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[notify] Failed to send to client %s: %v", clientID, err)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Deliver queues a notification for the owning user's connections.
// It never blocks the caller; when the queue is full the notification
// is dropped.
func (h *Hub) Deliver(n task.Notification) {
	select {
	case h.deliver <- n:
	default:
		log.Printf("[notify] Delivery queue full, dropping reminder for task %s", n.TaskID)
	}
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserClientCount returns the number of connections held by a user.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
