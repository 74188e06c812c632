package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spgovern/domain/governance"
)

// MockOperationJournal implements OperationJournal for testing
type MockOperationJournal struct {
	mock.Mock
}

func (m *MockOperationJournal) Begin(ctx context.Context, op *governance.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *MockOperationJournal) Advance(ctx context.Context, operationID string, phase governance.OperationPhase) error {
	args := m.Called(ctx, operationID, phase)
	return args.Error(0)
}

func (m *MockOperationJournal) Complete(ctx context.Context, operationID string) error {
	args := m.Called(ctx, operationID)
	return args.Error(0)
}

func (m *MockOperationJournal) ListIncomplete(ctx context.Context) ([]*governance.Operation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*governance.Operation), args.Error(1)
}
