package mocks

import (
	"github.com/stretchr/testify/mock"

	"spgovern/domain/events"
)

// MockOperationEventPublisher is a mock implementation of OperationEventPublisher for testing
type MockOperationEventPublisher struct {
	mock.Mock
}

func (m *MockOperationEventPublisher) PublishOperationStarted(event events.OperationStartedEvent) {
	m.Called(event)
}

func (m *MockOperationEventPublisher) PublishOperationProgress(event events.OperationProgressEvent) {
	m.Called(event)
}

func (m *MockOperationEventPublisher) PublishOperationCompleted(event events.OperationCompletedEvent) {
	m.Called(event)
}
