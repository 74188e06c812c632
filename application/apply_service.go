package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
	"spgovern/domain/events"
	"spgovern/domain/governance"
	"spgovern/logging"
)

// ApplyService is the permission application engine. It transitions one
// folder from inherited to isolated, group-scoped access through three
// strictly-ordered steps: break inheritance, strip ambient site groups,
// grant the operator's selections. The steps are not atomic; every run is
// journaled so folders left mid-protocol can be found later.
type ApplyService struct {
	client     contracts.DirectoryClient
	classifier *directory.Classifier
	journal    contracts.OperationJournal
	publisher  events.OperationEventPublisher
	logger     *logging.Logger
}

// NewApplyService creates the engine with its collaborators.
func NewApplyService(
	client contracts.DirectoryClient,
	classifier *directory.Classifier,
	journal contracts.OperationJournal,
	publisher events.OperationEventPublisher,
) *ApplyService {
	return &ApplyService{
		client:     client,
		classifier: classifier,
		journal:    journal,
		publisher:  publisher,
		logger:     logging.Default().WithComponent("apply_service"),
	}
}

// Apply runs the three-step protocol on one folder. Empty selections are
// a no-op. An error return means the protocol aborted mid-run (the folder
// may be isolated but ungranted); a nil error with a partial result means
// some individual grants failed, which the caller must surface.
func (s *ApplyService) Apply(
	ctx context.Context,
	siteID, driveID, folderID, folderName string,
	selections []governance.GrantSelection,
) (*governance.ApplyResult, error) {
	if len(selections) == 0 {
		return &governance.ApplyResult{FolderID: folderID}, nil
	}
	for _, selection := range selections {
		if !selection.Role.Valid() {
			return nil, fmt.Errorf("invalid role %q for group %s", selection.Role, selection.GroupID)
		}
	}

	result := &governance.ApplyResult{
		OperationID: uuid.NewString(),
		FolderID:    folderID,
	}

	// The journal is advisory: a write failure must not block the apply,
	// but it costs us the reconciliation trail, so it is logged loudly.
	journaled := s.beginJournal(ctx, result.OperationID, siteID, driveID, folderID, folderName)

	s.publisher.PublishOperationStarted(events.OperationStartedEvent{
		OperationID: result.OperationID,
		FolderID:    folderID,
		FolderName:  folderName,
		Timestamp:   time.Now(),
	})

	s.logger.Security("Applying folder isolation",
		"operation_id", result.OperationID,
		"folder_id", folderID,
		"folder_name", folderName,
		"selections", len(selections))

	s.breakInheritance(ctx, siteID, driveID, folderID, result, journaled)

	if err := s.stripAmbientGroups(ctx, siteID, driveID, folderID, result, journaled); err != nil {
		// Mid-protocol abort: the journal entry stays at its last phase
		// so the folder shows up in the reconciliation view.
		return result, err
	}

	s.grantSelections(ctx, siteID, driveID, folderID, selections, result)

	if journaled {
		if err := s.journal.Complete(ctx, result.OperationID); err != nil {
			s.logger.Error("Failed to complete operation journal entry",
				"operation_id", result.OperationID, "error", err)
		}
	}

	s.completeEvents(result)
	return result, nil
}

// ListIncompleteOperations returns apply runs that never reached the
// grant step, oldest first, for the reconciliation view.
func (s *ApplyService) ListIncompleteOperations(ctx context.Context) ([]*governance.Operation, error) {
	return s.journal.ListIncomplete(ctx)
}

func (s *ApplyService) beginJournal(ctx context.Context, operationID, siteID, driveID, folderID, folderName string) bool {
	err := s.journal.Begin(ctx, &governance.Operation{
		ID:         operationID,
		SiteID:     siteID,
		DriveID:    driveID,
		FolderID:   folderID,
		FolderName: folderName,
		Phase:      governance.PhaseStarted,
	})
	if err != nil {
		s.logger.Error("Failed to journal operation start; continuing without reconciliation trail",
			"operation_id", operationID, "folder_id", folderID, "error", err)
		return false
	}
	return true
}

// breakInheritance is step 1. The break is advisory: the goal is "ensure
// broken", so a failure is recorded and the protocol continues.
func (s *ApplyService) breakInheritance(ctx context.Context, siteID, driveID, folderID string, result *governance.ApplyResult, journaled bool) {
	outcome := governance.AttemptOutcome{Target: "inheritance"}
	if err := s.client.BreakInheritance(ctx, siteID, driveID, folderID); err != nil {
		outcome.Error = err.Error()
		s.logger.Warn("Inheritance break reported failure",
			"folder_id", folderID, "error", err)
	}
	result.InheritanceBreaks = append(result.InheritanceBreaks, outcome)

	if journaled {
		s.advanceJournal(ctx, result.OperationID, governance.PhaseBroken)
	}
}

// stripAmbientGroups is step 2: re-read the folder's entries and delete
// every one bound to a default site group. Deletions are attempted
// independently; only the permission re-read itself is fatal.
func (s *ApplyService) stripAmbientGroups(ctx context.Context, siteID, driveID, folderID string, result *governance.ApplyResult, journaled bool) error {
	permissions, err := s.client.ListFolderPermissions(ctx, siteID, driveID, folderID)
	if err != nil {
		return fmt.Errorf("read folder permissions: %w", err)
	}

	for _, permission := range permissions {
		name := permission.PrincipalDisplayName()
		if !s.classifier.IsAmbient(name) {
			continue
		}
		outcome := governance.AttemptOutcome{Target: permission.ID}
		if err := s.client.DeletePermission(ctx, siteID, driveID, folderID, permission.ID); err != nil {
			outcome.Error = err.Error()
			s.logger.Warn("Failed to remove ambient group entry",
				"folder_id", folderID, "permission_id", permission.ID, "principal", name, "error", err)
		} else {
			s.logger.Security("Removed ambient group entry",
				"folder_id", folderID, "principal", name)
		}
		result.RemovedAmbient = append(result.RemovedAmbient, outcome)
	}

	if journaled {
		s.advanceJournal(ctx, result.OperationID, governance.PhaseCleaned)
	}
	return nil
}

// grantSelections is step 3: sequential invitation-style grants, one per
// selection. A failed grant never stops the remaining ones; failures are
// collected for the caller.
func (s *ApplyService) grantSelections(ctx context.Context, siteID, driveID, folderID string, selections []governance.GrantSelection, result *governance.ApplyResult) {
	for _, selection := range selections {
		outcome := governance.GrantOutcome{GroupID: selection.GroupID, Role: selection.Role}

		err := s.client.GrantAccess(ctx, siteID, driveID, folderID, contracts.GrantRequest{
			RecipientGroupID: selection.GroupID,
			Roles:            []string{selection.Role.String()},
		})
		if err != nil {
			outcome.Error = err.Error()
			s.logger.Error("Grant failed",
				"folder_id", folderID, "group_id", selection.GroupID, "role", selection.Role, "error", err)
		} else {
			s.logger.Security("Granted folder access",
				"folder_id", folderID, "group_id", selection.GroupID, "role", selection.Role)
		}
		result.Grants = append(result.Grants, outcome)

		message := fmt.Sprintf("granted %s to group %s", selection.Role, selection.GroupID)
		if !outcome.Succeeded() {
			message = fmt.Sprintf("grant of %s to group %s failed", selection.Role, selection.GroupID)
		}
		s.publisher.PublishOperationProgress(events.OperationProgressEvent{
			OperationID: result.OperationID,
			Message:     message,
			Timestamp:   time.Now(),
		})
	}
}

func (s *ApplyService) advanceJournal(ctx context.Context, operationID string, phase governance.OperationPhase) {
	if err := s.journal.Advance(ctx, operationID, phase); err != nil {
		s.logger.Error("Failed to advance operation journal entry",
			"operation_id", operationID, "phase", phase, "error", err)
	}
}

func (s *ApplyService) completeEvents(result *governance.ApplyResult) {
	s.publisher.PublishOperationCompleted(events.OperationCompletedEvent{
		OperationID: result.OperationID,
		FolderID:    result.FolderID,
		Status:      result.Status(),
		FailedCount: len(result.FailedGrants()),
		Timestamp:   time.Now(),
	})
}
