package presenters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spgovern/domain/directory"
	"spgovern/domain/governance"
)

func TestGovernancePresenter_FormatApplyResult(t *testing.T) {
	presenter := NewGovernancePresenter()

	result := &governance.ApplyResult{
		OperationID: "op-1",
		FolderID:    "f1",
		InheritanceBreaks: []governance.AttemptOutcome{
			{Target: "inheritance"},
		},
		RemovedAmbient: []governance.AttemptOutcome{
			{Target: "p1"},
			{Target: "p2", Error: "locked"},
		},
		Grants: []governance.GrantOutcome{
			{GroupID: "g1", Role: directory.RoleWrite},
			{GroupID: "g2", Role: directory.RoleRead, Error: "invitation rejected"},
		},
	}

	vm := presenter.FormatApplyResult(result)

	assert.Equal(t, "op-1", vm.OperationID)
	assert.Equal(t, "partial", vm.Status)
	assert.Equal(t, 1, vm.FailedGrants)

	require.Len(t, vm.Grants, 2)
	assert.True(t, vm.Grants[0].Applied)
	assert.Equal(t, "write", vm.Grants[0].Role)
	assert.False(t, vm.Grants[1].Applied)
	assert.Equal(t, "invitation rejected", vm.Grants[1].Error)

	require.Len(t, vm.RemovedAmbient, 2)
	assert.True(t, vm.RemovedAmbient[0].Succeeded)
	assert.False(t, vm.RemovedAmbient[1].Succeeded)
}

func TestGovernancePresenter_FormatBulkResult_Counts(t *testing.T) {
	presenter := NewGovernancePresenter()

	result := &governance.BulkApplyResult{
		Folders: []governance.FolderApplyOutcome{
			{
				FolderID: "f1",
				Result: &governance.ApplyResult{
					Grants: []governance.GrantOutcome{{GroupID: "g1", Role: directory.RoleWrite}},
				},
			},
			{
				FolderID: "f2",
				Result: &governance.ApplyResult{
					Grants: []governance.GrantOutcome{
						{GroupID: "g1", Role: directory.RoleWrite},
						{GroupID: "g2", Role: directory.RoleRead, Error: "throttled"},
					},
				},
			},
			{FolderID: "f3", Skipped: true},
			{FolderID: "f4", Error: "read folder permissions: throttled"},
		},
	}

	vm := presenter.FormatBulkResult(result)

	require.Len(t, vm.Folders, 4)
	assert.Equal(t, 1, vm.Applied)
	assert.Equal(t, 1, vm.Partial)
	assert.Equal(t, 1, vm.Skipped)
	assert.Equal(t, 1, vm.Failed)

	assert.NotNil(t, vm.Folders[0].Result)
	assert.Equal(t, "applied", vm.Folders[0].Result.Status)
	assert.True(t, vm.Folders[2].Skipped)
	assert.NotEmpty(t, vm.Folders[3].Error)
}
