package events

import (
	"spgovern/domain/events"
	"spgovern/logging"
)

// SSEBroadcaster defines the interface for pushing operation events to
// connected consoles.
type SSEBroadcaster interface {
	BroadcastOperationEvent(event string, payload any)
}

// NotificationEventHandlers converts operation lifecycle events into SSE
// pushes for the console.
type NotificationEventHandlers struct {
	sseBroadcaster SSEBroadcaster
	logger         *logging.Logger
}

// NewNotificationEventHandlers creates event handlers for notifications.
func NewNotificationEventHandlers(sseBroadcaster SSEBroadcaster) *NotificationEventHandlers {
	return &NotificationEventHandlers{
		sseBroadcaster: sseBroadcaster,
		logger:         logging.Default().WithComponent("notification_events"),
	}
}

// RegisterHandlers registers all notification event handlers with the event bus.
func (h *NotificationEventHandlers) RegisterHandlers(eventBus *OperationEventBus) {
	eventBus.OnOperationStarted(h.handleOperationStarted)
	eventBus.OnOperationProgress(h.handleOperationProgress)
	eventBus.OnOperationCompleted(h.handleOperationCompleted)
}

func (h *NotificationEventHandlers) handleOperationStarted(event events.OperationStartedEvent) {
	h.logger.Debug("Handling operation started event", "operation_id", event.OperationID)
	h.sseBroadcaster.BroadcastOperationEvent("operation-started", event)
}

func (h *NotificationEventHandlers) handleOperationProgress(event events.OperationProgressEvent) {
	h.sseBroadcaster.BroadcastOperationEvent("operation-progress", event)
}

func (h *NotificationEventHandlers) handleOperationCompleted(event events.OperationCompletedEvent) {
	h.logger.Info("Handling operation completed event",
		"operation_id", event.OperationID,
		"status", event.Status,
		"failed_count", event.FailedCount)
	h.sseBroadcaster.BroadcastOperationEvent("operation-completed", event)
}
