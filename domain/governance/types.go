package governance

import (
	"time"

	"spgovern/domain/directory"
)

// GrantSelection is one operator-chosen (group, role) pairing, the unit of
// work consumed by the permission application engine.
type GrantSelection struct {
	GroupID string         `json:"groupId"`
	Role    directory.Role `json:"role"`
}

// AttemptOutcome records one best-effort remote call: what was attempted
// and how it ended. Best-effort steps return these instead of swallowing
// failures silently, so callers and tests can see what happened.
type AttemptOutcome struct {
	Target string `json:"target"`
	Error  string `json:"error,omitempty"`
}

// Succeeded reports whether the attempt completed without error.
func (a AttemptOutcome) Succeeded() bool {
	return a.Error == ""
}

// GrantOutcome records the result of a single grant selection.
type GrantOutcome struct {
	GroupID string         `json:"groupId"`
	Role    directory.Role `json:"role"`
	Error   string         `json:"error,omitempty"`
}

// Succeeded reports whether the grant was applied.
func (g GrantOutcome) Succeeded() bool {
	return g.Error == ""
}

// ApplyStatus summarizes an apply run for the operator.
type ApplyStatus string

const (
	// ApplyStatusNoop means there was nothing to apply (empty selections).
	ApplyStatusNoop ApplyStatus = "noop"
	// ApplyStatusApplied means every selection was granted.
	ApplyStatusApplied ApplyStatus = "applied"
	// ApplyStatusPartial means some selections failed; the folder is
	// isolated but under-granted relative to the request.
	ApplyStatusPartial ApplyStatus = "partial"
	// ApplyStatusFailed means no selection was granted.
	ApplyStatusFailed ApplyStatus = "failed"
)

// ApplyResult is the full accounting of one permission application run on
// a single folder. Failures on individual items never abort the run, so
// the result enumerates per-item outcomes for all three protocol steps.
type ApplyResult struct {
	OperationID       string           `json:"operationId"`
	FolderID          string           `json:"folderId"`
	InheritanceBreaks []AttemptOutcome `json:"inheritanceBreaks"`
	RemovedAmbient    []AttemptOutcome `json:"removedAmbient"`
	Grants            []GrantOutcome   `json:"grants"`
}

// Status derives the operator-facing summary from the grant outcomes.
// Inheritance-break and ambient-removal outcomes are advisory and do not
// affect the status.
func (r *ApplyResult) Status() ApplyStatus {
	if len(r.Grants) == 0 {
		return ApplyStatusNoop
	}
	succeeded := 0
	for _, g := range r.Grants {
		if g.Succeeded() {
			succeeded++
		}
	}
	switch succeeded {
	case len(r.Grants):
		return ApplyStatusApplied
	case 0:
		return ApplyStatusFailed
	default:
		return ApplyStatusPartial
	}
}

// FailedGrants returns the selections that were not applied. An unapplied
// grant is a security-relevant outcome the operator must see.
func (r *ApplyResult) FailedGrants() []GrantOutcome {
	var failed []GrantOutcome
	for _, g := range r.Grants {
		if !g.Succeeded() {
			failed = append(failed, g)
		}
	}
	return failed
}

// FolderApplyOutcome is the per-folder result of a bulk application run.
type FolderApplyOutcome struct {
	FolderID   string           `json:"folderId"`
	FolderName string           `json:"folderName"`
	Selections []GrantSelection `json:"selections"`
	// Skipped is set when no governance group matched the folder name.
	Skipped bool         `json:"skipped"`
	Result  *ApplyResult `json:"result,omitempty"`
	// Error is set when the folder's apply run aborted mid-protocol.
	Error string `json:"error,omitempty"`
}

// BulkApplyResult enumerates every folder processed by a bulk run.
// One folder failing never blocks the rest.
type BulkApplyResult struct {
	Folders []FolderApplyOutcome `json:"folders"`
}

// GroupFailure records a group-scoped failure during membership cloning.
type GroupFailure struct {
	Group directory.Group `json:"group"`
	Error string          `json:"error"`
}

// CloneResult is the accounting of a membership clone run. Cloning is
// additive and at-least-once: conflicts (target already a member) land in
// Failed without aborting the rest.
type CloneResult struct {
	SourceUserID string            `json:"sourceUserId"`
	TargetUserID string            `json:"targetUserId"`
	Succeeded    []directory.Group `json:"succeededGroups"`
	Failed       []GroupFailure    `json:"failedGroups"`
}

// AuditGroup is one governance group with resolved members on an audited
// folder.
type AuditGroup struct {
	Name    string           `json:"name"`
	Role    string           `json:"role"`
	Members []directory.User `json:"members"`
}

// AuditEntry is one report row: a folder and the governance groups that
// hold access to it. Folders with no qualifying groups are omitted from
// reports entirely.
type AuditEntry struct {
	FolderPath string       `json:"folderPath"`
	FolderName string       `json:"folderName"`
	Groups     []AuditGroup `json:"groups"`
}

// TraversalRules describes the folder-naming convention an audit report
// walks: children of the root container are audited directly, except the
// nested container, whose children are audited one level deeper. This is
// deployment layout, so it arrives from configuration.
type TraversalRules struct {
	RootContainer   string `json:"rootContainer"`
	NestedContainer string `json:"nestedContainer"`
}

// OperationPhase tracks how far an apply run got, mirroring the folder's
// observable permission state transitions.
type OperationPhase string

const (
	PhaseStarted   OperationPhase = "started"
	PhaseBroken    OperationPhase = "broken"
	PhaseCleaned   OperationPhase = "cleaned"
	PhaseCompleted OperationPhase = "completed"
)

// Operation is a durable journal record of an apply run. The three-step
// protocol is not atomic; a record stuck before PhaseCompleted marks a
// folder possibly left isolated but ungranted, for later reconciliation.
type Operation struct {
	ID         string         `json:"id"`
	SiteID     string         `json:"siteId"`
	DriveID    string         `json:"driveId"`
	FolderID   string         `json:"folderId"`
	FolderName string         `json:"folderName"`
	Phase      OperationPhase `json:"phase"`
	StartedAt  time.Time      `json:"startedAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
