package repositories

import (
	"context"
	"fmt"
	"time"

	"spgovern/database"
	"spgovern/domain/contracts"
	"spgovern/domain/governance"
)

// SqliteOperationJournal persists permission application runs in the
// journal database. Writes go through the serialized write connection.
type SqliteOperationJournal struct {
	db *database.Database
}

// NewSqliteOperationJournal creates a journal backed by the given database.
func NewSqliteOperationJournal(db *database.Database) contracts.OperationJournal {
	return &SqliteOperationJournal{db: db}
}

func (r *SqliteOperationJournal) Begin(ctx context.Context, op *governance.Operation) error {
	if op.StartedAt.IsZero() {
		op.StartedAt = time.Now().UTC()
	}
	op.UpdatedAt = op.StartedAt
	if op.Phase == "" {
		op.Phase = governance.PhaseStarted
	}

	_, err := r.db.WriteDB().ExecContext(ctx,
		`INSERT INTO operations (id, site_id, drive_id, folder_id, folder_name, phase, started_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID, op.SiteID, op.DriveID, op.FolderID, op.FolderName, string(op.Phase), op.StartedAt, op.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record operation %s: %w", op.ID, err)
	}
	return nil
}

func (r *SqliteOperationJournal) Advance(ctx context.Context, operationID string, phase governance.OperationPhase) error {
	result, err := r.db.WriteDB().ExecContext(ctx,
		`UPDATE operations SET phase = ?, updated_at = ? WHERE id = ?`,
		string(phase), time.Now().UTC(), operationID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance operation %s: %w", operationID, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("operation %s not found", operationID)
	}
	return nil
}

func (r *SqliteOperationJournal) Complete(ctx context.Context, operationID string) error {
	return r.Advance(ctx, operationID, governance.PhaseCompleted)
}

func (r *SqliteOperationJournal) ListIncomplete(ctx context.Context) ([]*governance.Operation, error) {
	rows, err := r.db.ReadDB().QueryContext(ctx,
		`SELECT id, site_id, drive_id, folder_id, folder_name, phase, started_at, updated_at
		 FROM operations
		 WHERE phase != ?
		 ORDER BY started_at ASC`,
		string(governance.PhaseCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomplete operations: %w", err)
	}
	defer rows.Close()

	var operations []*governance.Operation
	for rows.Next() {
		var op governance.Operation
		var phase string
		if err := rows.Scan(&op.ID, &op.SiteID, &op.DriveID, &op.FolderID, &op.FolderName, &phase, &op.StartedAt, &op.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation row: %w", err)
		}
		op.Phase = governance.OperationPhase(phase)
		operations = append(operations, &op)
	}
	return operations, rows.Err()
}
