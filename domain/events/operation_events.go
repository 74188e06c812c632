package events

import (
	"time"

	"spgovern/domain/governance"
)

// OperationStartedEvent marks the start of a permission application run.
type OperationStartedEvent struct {
	OperationID string
	FolderID    string
	FolderName  string
	Timestamp   time.Time
}

// OperationProgressEvent reports a phase transition or a per-item step
// inside a long-running operation (bulk apply, report generation, clone).
type OperationProgressEvent struct {
	OperationID string
	Message     string
	Timestamp   time.Time
}

// OperationCompletedEvent carries the final accounting of an application
// run, including partial-failure detail.
type OperationCompletedEvent struct {
	OperationID string
	FolderID    string
	Status      governance.ApplyStatus
	FailedCount int
	Timestamp   time.Time
}

// OperationEventPublisher defines the interface for publishing operation
// lifecycle events.
type OperationEventPublisher interface {
	PublishOperationStarted(event OperationStartedEvent)
	PublishOperationProgress(event OperationProgressEvent)
	PublishOperationCompleted(event OperationCompletedEvent)
}
