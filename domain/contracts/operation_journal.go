package contracts

import (
	"context"

	"spgovern/domain/governance"
)

// OperationJournal durably records permission application runs. The
// three-step apply protocol is not atomic; the journal lets a later
// reconciliation pass find folders left between inheritance break and
// grant application.
type OperationJournal interface {
	// Begin records a new operation before the first mutating call.
	Begin(ctx context.Context, op *governance.Operation) error
	// Advance moves an operation to the given phase.
	Advance(ctx context.Context, operationID string, phase governance.OperationPhase) error
	// Complete marks the operation finished after the grant step.
	Complete(ctx context.Context, operationID string) error
	// ListIncomplete returns operations that never reached completion,
	// oldest first.
	ListIncomplete(ctx context.Context) ([]*governance.Operation, error)
}
