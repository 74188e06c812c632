package presenters

import (
	"spgovern/application"
	"spgovern/domain/governance"
)

// Governance view models, shaped for the SPA's consumption.

// GrantVM is one grant outcome row.
type GrantVM struct {
	GroupID string `json:"groupId"`
	Role    string `json:"role"`
	Error   string `json:"error,omitempty"`
	Applied bool   `json:"applied"`
}

// AttemptVM is one best-effort step outcome row.
type AttemptVM struct {
	Target    string `json:"target"`
	Error     string `json:"error,omitempty"`
	Succeeded bool   `json:"succeeded"`
}

// ApplyResultVM summarizes one apply run. Status distinguishes "applied",
// "partial", "failed" and "noop" so the UI can render the right banner.
type ApplyResultVM struct {
	OperationID    string      `json:"operationId"`
	FolderID       string      `json:"folderId"`
	Status         string      `json:"status"`
	Grants         []GrantVM   `json:"grants"`
	RemovedAmbient []AttemptVM `json:"removedAmbient"`
	FailedGrants   int         `json:"failedGrants"`
}

// FolderOutcomeVM is one folder row in a bulk apply response.
type FolderOutcomeVM struct {
	FolderID   string         `json:"folderId"`
	FolderName string         `json:"folderName"`
	Skipped    bool           `json:"skipped"`
	Error      string         `json:"error,omitempty"`
	Result     *ApplyResultVM `json:"result,omitempty"`
}

// BulkApplyResultVM is the full bulk apply response.
type BulkApplyResultVM struct {
	Folders []FolderOutcomeVM `json:"folders"`
	Applied int               `json:"applied"`
	Partial int               `json:"partial"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
}

// PermissionVM is one classified permission entry.
type PermissionVM struct {
	ID        string   `json:"id"`
	Principal string   `json:"principal"`
	Roles     []string `json:"roles"`
	Kind      string   `json:"kind"`
	Role      string   `json:"role"`
}

// GroupVM is one governance group with its derived role.
type GroupVM struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Role        string `json:"role"`
}

// GovernancePresenter converts engine results into view models.
type GovernancePresenter struct{}

// NewGovernancePresenter creates a governance presenter.
func NewGovernancePresenter() *GovernancePresenter {
	return &GovernancePresenter{}
}

// FormatApplyResult converts an apply result for display.
func (p *GovernancePresenter) FormatApplyResult(result *governance.ApplyResult) *ApplyResultVM {
	vm := &ApplyResultVM{
		OperationID:  result.OperationID,
		FolderID:     result.FolderID,
		Status:       string(result.Status()),
		Grants:       make([]GrantVM, 0, len(result.Grants)),
		FailedGrants: len(result.FailedGrants()),
	}
	for _, grant := range result.Grants {
		vm.Grants = append(vm.Grants, GrantVM{
			GroupID: grant.GroupID,
			Role:    grant.Role.String(),
			Error:   grant.Error,
			Applied: grant.Succeeded(),
		})
	}
	for _, attempt := range result.RemovedAmbient {
		vm.RemovedAmbient = append(vm.RemovedAmbient, AttemptVM{
			Target:    attempt.Target,
			Error:     attempt.Error,
			Succeeded: attempt.Succeeded(),
		})
	}
	return vm
}

// FormatBulkResult converts a bulk apply result with per-status counts.
func (p *GovernancePresenter) FormatBulkResult(result *governance.BulkApplyResult) *BulkApplyResultVM {
	vm := &BulkApplyResultVM{Folders: make([]FolderOutcomeVM, 0, len(result.Folders))}
	for _, folder := range result.Folders {
		folderVM := FolderOutcomeVM{
			FolderID:   folder.FolderID,
			FolderName: folder.FolderName,
			Skipped:    folder.Skipped,
			Error:      folder.Error,
		}
		switch {
		case folder.Skipped:
			vm.Skipped++
		case folder.Error != "":
			vm.Failed++
		case folder.Result != nil:
			folderVM.Result = p.FormatApplyResult(folder.Result)
			switch folder.Result.Status() {
			case governance.ApplyStatusApplied:
				vm.Applied++
			case governance.ApplyStatusPartial:
				vm.Partial++
			default:
				vm.Failed++
			}
		}
		vm.Folders = append(vm.Folders, folderVM)
	}
	return vm
}

// FormatPermissions converts classified permission entries.
func (p *GovernancePresenter) FormatPermissions(annotated []application.AnnotatedPermission) []PermissionVM {
	vms := make([]PermissionVM, 0, len(annotated))
	for _, entry := range annotated {
		vms = append(vms, PermissionVM{
			ID:        entry.Permission.ID,
			Principal: entry.Permission.PrincipalDisplayName(),
			Roles:     entry.Permission.Roles,
			Kind:      entry.Kind.String(),
			Role:      entry.Role.String(),
		})
	}
	return vms
}

// FormatGroups converts annotated governance groups.
func (p *GovernancePresenter) FormatGroups(annotated []application.AnnotatedGroup) []GroupVM {
	vms := make([]GroupVM, 0, len(annotated))
	for _, entry := range annotated {
		vms = append(vms, GroupVM{
			ID:          entry.Group.ID,
			DisplayName: entry.Group.DisplayName,
			Description: entry.Group.Description,
			Role:        entry.Role.String(),
		})
	}
	return vms
}
