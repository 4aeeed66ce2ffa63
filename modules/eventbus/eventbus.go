// Package eventbus provides an in-memory event bus for task events.
package eventbus

import (
	"context"
	"log"
	"sync"

	"github.com/example/taskhub/domain/task"
)

// EventHandler is a function that handles task events.
type EventHandler func(event task.Event)

// EventBus provides publish-subscribe functionality for task events.
type EventBus struct {
	handlers map[task.EventType][]EventHandler
	mu       sync.RWMutex
}

// New creates a new EventBus.
func New() *EventBus {
	return &EventBus{
		handlers: make(map[task.EventType][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type.
func (eb *EventBus) Subscribe(eventType task.EventType, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	log.Printf("[eventbus] Subscribed to %s", eventType)
}

// SubscribeAll registers a handler for all task event types.
func (eb *EventBus) SubscribeAll(handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eventTypes := []task.EventType{
		task.EventTypeTaskCreated,
		task.EventTypeTaskUpdated,
		task.EventTypeTaskDeleted,
	}

	for _, et := range eventTypes {
		eb.handlers[et] = append(eb.handlers[et], handler)
	}
	log.Println("[eventbus] Subscribed to all event types")
}

// Publish publishes an event to all registered handlers.
func (eb *EventBus) Publish(_ context.Context, event task.Event) {
	eb.mu.RLock()
	handlers := eb.handlers[event.Type]
	eb.mu.RUnlock()

	for _, handler := range handlers {
		// Run handlers asynchronously to not block the publisher
		go func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[eventbus] Handler panic for %s: %v", event.Type, r)
				}
			}()
			h(event)
		}(handler)
	}
}

// HandlerCount returns the number of handlers for a specific event type.
func (eb *EventBus) HandlerCount(eventType task.EventType) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}
