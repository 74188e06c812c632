package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"spgovern/domain/events"
	"spgovern/domain/governance"
)

// MockSSEBroadcaster for testing NotificationEventHandlers
type MockSSEBroadcaster struct {
	mock.Mock
}

func (m *MockSSEBroadcaster) BroadcastOperationEvent(event string, payload any) {
	m.Called(event, payload)
}

func TestNotificationEventHandlers_HandleOperationStarted(t *testing.T) {
	// Arrange
	mockSSE := &MockSSEBroadcaster{}
	handlers := NewNotificationEventHandlers(mockSSE)

	event := events.OperationStartedEvent{
		OperationID: "op-1",
		FolderID:    "f1",
		FolderName:  "Finance",
		Timestamp:   time.Now(),
	}

	mockSSE.On("BroadcastOperationEvent", "operation-started", event).Return()

	// Act
	handlers.handleOperationStarted(event)

	// Assert
	mockSSE.AssertExpectations(t)
}

func TestNotificationEventHandlers_HandleOperationCompleted(t *testing.T) {
	// Arrange
	mockSSE := &MockSSEBroadcaster{}
	handlers := NewNotificationEventHandlers(mockSSE)

	event := events.OperationCompletedEvent{
		OperationID: "op-2",
		FolderID:    "f1",
		Status:      governance.ApplyStatusPartial,
		FailedCount: 2,
		Timestamp:   time.Now(),
	}

	mockSSE.On("BroadcastOperationEvent", "operation-completed", event).Return()

	// Act
	handlers.handleOperationCompleted(event)

	// Assert
	mockSSE.AssertExpectations(t)
}

func TestNotificationEventHandlers_RegisterHandlers_WiresBusToBroadcaster(t *testing.T) {
	// Arrange
	mockSSE := &MockSSEBroadcaster{}
	handlers := NewNotificationEventHandlers(mockSSE)
	eventBus := NewOperationEventBus()

	handlers.RegisterHandlers(eventBus)

	broadcast := make(chan string, 1)
	mockSSE.On("BroadcastOperationEvent", "operation-progress", mock.Anything).
		Run(func(args mock.Arguments) {
			broadcast <- args.String(0)
		}).Return()

	// Act
	eventBus.PublishOperationProgress(events.OperationProgressEvent{
		OperationID: "op-3",
		Message:     "granted write to group g1",
		Timestamp:   time.Now(),
	})

	// Assert
	select {
	case eventName := <-broadcast:
		if eventName != "operation-progress" {
			t.Fatalf("unexpected event name: %s", eventName)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast was not invoked within timeout")
	}
}
