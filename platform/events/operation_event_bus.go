package events

import (
	"sync"

	"spgovern/domain/events"
	"spgovern/logging"
)

// OperationEventBus provides type-safe event publishing and subscription
// for permission operation events. Handlers run asynchronously so a slow
// SSE client never blocks the engine.
type OperationEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	startedHandlers   []func(events.OperationStartedEvent)
	progressHandlers  []func(events.OperationProgressEvent)
	completedHandlers []func(events.OperationCompletedEvent)
}

// NewOperationEventBus creates a new typed operation event bus
func NewOperationEventBus() *OperationEventBus {
	return &OperationEventBus{
		logger:            logging.Default().WithComponent("operation_event_bus"),
		startedHandlers:   make([]func(events.OperationStartedEvent), 0),
		progressHandlers:  make([]func(events.OperationProgressEvent), 0),
		completedHandlers: make([]func(events.OperationCompletedEvent), 0),
	}
}

// Subscribe methods for each event type

func (bus *OperationEventBus) OnOperationStarted(handler func(events.OperationStartedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.startedHandlers = append(bus.startedHandlers, handler)
}

func (bus *OperationEventBus) OnOperationProgress(handler func(events.OperationProgressEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.progressHandlers = append(bus.progressHandlers, handler)
}

func (bus *OperationEventBus) OnOperationCompleted(handler func(events.OperationCompletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.completedHandlers = append(bus.completedHandlers, handler)
}

// Publish methods for each event type

func (bus *OperationEventBus) PublishOperationStarted(event events.OperationStartedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.OperationStartedEvent), len(bus.startedHandlers))
	copy(handlers, bus.startedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.OperationStartedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in OperationStarted",
						"operation_id", event.OperationID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *OperationEventBus) PublishOperationProgress(event events.OperationProgressEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.OperationProgressEvent), len(bus.progressHandlers))
	copy(handlers, bus.progressHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.OperationProgressEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in OperationProgress",
						"operation_id", event.OperationID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *OperationEventBus) PublishOperationCompleted(event events.OperationCompletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.OperationCompletedEvent), len(bus.completedHandlers))
	copy(handlers, bus.completedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.OperationCompletedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in OperationCompleted",
						"operation_id", event.OperationID,
						"status", event.Status,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
