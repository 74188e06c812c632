package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"spgovern/domain/events"
	"spgovern/domain/governance"
)

func TestOperationEventBus_PublishOperationStarted_Success(t *testing.T) {
	// Arrange
	eventBus := NewOperationEventBus()

	done := make(chan events.OperationStartedEvent, 1)

	// Subscribe to the event
	eventBus.OnOperationStarted(func(event events.OperationStartedEvent) {
		done <- event
	})

	// Act
	testEvent := events.OperationStartedEvent{
		OperationID: "op-1",
		FolderID:    "f1",
		FolderName:  "Finance",
		Timestamp:   time.Now(),
	}
	eventBus.PublishOperationStarted(testEvent)

	// Assert
	select {
	case receivedEvent := <-done:
		assert.Equal(t, "op-1", receivedEvent.OperationID)
		assert.Equal(t, "Finance", receivedEvent.FolderName)
		assert.False(t, receivedEvent.Timestamp.IsZero())
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Handler was not called within timeout")
	}
}

func TestOperationEventBus_PublishOperationCompleted_Success(t *testing.T) {
	// Arrange
	eventBus := NewOperationEventBus()

	done := make(chan events.OperationCompletedEvent, 1)

	eventBus.OnOperationCompleted(func(event events.OperationCompletedEvent) {
		done <- event
	})

	// Act
	testEvent := events.OperationCompletedEvent{
		OperationID: "op-2",
		FolderID:    "f1",
		Status:      governance.ApplyStatusPartial,
		FailedCount: 1,
		Timestamp:   time.Now(),
	}
	eventBus.PublishOperationCompleted(testEvent)

	// Assert
	select {
	case receivedEvent := <-done:
		assert.Equal(t, "op-2", receivedEvent.OperationID)
		assert.Equal(t, governance.ApplyStatusPartial, receivedEvent.Status)
		assert.Equal(t, 1, receivedEvent.FailedCount)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Handler was not called within timeout")
	}
}

func TestOperationEventBus_MultipleHandlers(t *testing.T) {
	// Arrange
	eventBus := NewOperationEventBus()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	callCount := 0

	handler := func(event events.OperationProgressEvent) {
		mu.Lock()
		callCount++
		mu.Unlock()
		wg.Done()
	}

	eventBus.OnOperationProgress(handler)
	eventBus.OnOperationProgress(handler)

	// Act
	eventBus.PublishOperationProgress(events.OperationProgressEvent{
		OperationID: "op-3",
		Message:     "granted write to group g1",
		Timestamp:   time.Now(),
	})

	// Assert
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		mu.Lock()
		assert.Equal(t, 2, callCount)
		mu.Unlock()
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Handlers were not called within timeout")
	}
}

func TestOperationEventBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	// Arrange
	eventBus := NewOperationEventBus()

	done := make(chan struct{}, 1)

	eventBus.OnOperationStarted(func(event events.OperationStartedEvent) {
		panic("handler bug")
	})
	eventBus.OnOperationStarted(func(event events.OperationStartedEvent) {
		done <- struct{}{}
	})

	// Act
	eventBus.PublishOperationStarted(events.OperationStartedEvent{
		OperationID: "op-4",
		Timestamp:   time.Now(),
	})

	// Assert
	select {
	case <-done:
		// Second handler ran despite the first panicking
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Surviving handler was not called within timeout")
	}
}

func TestOperationEventBus_NoHandlersDoesNotPanic(t *testing.T) {
	eventBus := NewOperationEventBus()

	assert.NotPanics(t, func() {
		eventBus.PublishOperationStarted(events.OperationStartedEvent{OperationID: "op-5"})
		eventBus.PublishOperationProgress(events.OperationProgressEvent{OperationID: "op-5"})
		eventBus.PublishOperationCompleted(events.OperationCompletedEvent{OperationID: "op-5"})
	})
}
