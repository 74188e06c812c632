package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spgovern/domain/directory"
	"spgovern/domain/governance"
	"spgovern/test/helpers"
)

func newBulkServiceUnderTest(m *helpers.MockDirectory) *BulkApplyService {
	classifier := directory.NewClassifier(directory.DefaultConventions())
	apply := NewApplyService(m.Client, classifier, m.Journal, m.Publisher)
	return NewBulkApplyService(m.Client, classifier, apply)
}

func TestBulkApplyService_MatchSelections(t *testing.T) {
	td := helpers.NewTestData()
	service := newBulkServiceUnderTest(helpers.NewMockDirectory())

	groups := []*directory.Group{
		td.SimpleGroup("g1", "_GS_Finance_RW"),
		td.SimpleGroup("g2", "_GS_Finance_R"),
		td.SimpleGroup("g3", "_GS_Marketing_R"),
	}

	tests := []struct {
		name       string
		folderName string
		expected   []governance.GrantSelection
	}{
		{
			name:       "write_group_ordered_first",
			folderName: "Finance",
			expected: []governance.GrantSelection{
				{GroupID: "g1", Role: directory.RoleWrite},
				{GroupID: "g2", Role: directory.RoleRead},
			},
		},
		{
			name:       "single_match",
			folderName: "Marketing",
			expected: []governance.GrantSelection{
				{GroupID: "g3", Role: directory.RoleRead},
			},
		},
		{
			name:       "no_match",
			folderName: "Legal",
			expected:   []governance.GrantSelection{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.MatchSelections(groups, tt.folderName))
		})
	}
}

func TestBulkApplyService_ApplyToChildren(t *testing.T) {
	m := helpers.NewMockDirectory()
	td := helpers.NewTestData()

	m.ExpectGovernanceGroups([]*directory.Group{
		td.SimpleGroup("g1", "_GS_Finance_RW"),
		td.SimpleGroup("g2", "_GS_Finance_R"),
	})
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "parent1").
		Return([]*directory.FolderItem{
			td.SimpleFolder("f1", "Finance"),
			td.SimpleFolder("f2", "Legal"),
		}, nil)

	// Only Finance has matching groups, so only f1 goes through the engine
	m.ExpectJournaledRun()
	m.ExpectPublishedEvents()
	m.Client.On("BreakInheritance", mock.Anything, "site1", "drive1", "f1").Return(nil)
	m.ExpectFolderPermissions("f1", []*directory.Permission{})
	m.Client.On("GrantAccess", mock.Anything, "site1", "drive1", "f1", mock.Anything).Return(nil).Twice()

	service := newBulkServiceUnderTest(m)

	result, err := service.ApplyToChildren(context.Background(), "site1", "drive1", "parent1",
		[]string{"f1", "f2", "f3"})

	require.NoError(t, err)
	require.Len(t, result.Folders, 3)

	applied := result.Folders[0]
	assert.Equal(t, "f1", applied.FolderID)
	assert.False(t, applied.Skipped)
	require.NotNil(t, applied.Result)
	assert.Equal(t, governance.ApplyStatusApplied, applied.Result.Status())
	require.Len(t, applied.Selections, 2)
	assert.Equal(t, directory.RoleWrite, applied.Selections[0].Role)

	// Legal matched no governance group
	assert.True(t, result.Folders[1].Skipped)
	assert.Equal(t, "f2", result.Folders[1].FolderID)

	// f3 was not among the parent's children
	assert.True(t, result.Folders[2].Skipped)
	assert.Equal(t, "f3", result.Folders[2].FolderID)

	m.AssertAllExpectations(t)
}

func TestBulkApplyService_ApplyToChildren_StartFailures(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*helpers.MockDirectory)
	}{
		{
			name: "group_listing_fails",
			setupMocks: func(m *helpers.MockDirectory) {
				m.Client.On("ListGovernanceGroups", mock.Anything).
					Return(([]*directory.Group)(nil), errors.New("throttled"))
			},
		},
		{
			name: "child_listing_fails",
			setupMocks: func(m *helpers.MockDirectory) {
				m.ExpectGovernanceGroups([]*directory.Group{})
				m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "parent1").
					Return(([]*directory.FolderItem)(nil), errors.New("not found"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := helpers.NewMockDirectory()
			tt.setupMocks(m)

			service := newBulkServiceUnderTest(m)
			result, err := service.ApplyToChildren(context.Background(), "site1", "drive1", "parent1", []string{"f1"})

			assert.Error(t, err)
			assert.Nil(t, result)
			m.AssertAllExpectations(t)
		})
	}
}

func TestBulkApplyService_ApplyToChildren_FolderFailureDoesNotBlockOthers(t *testing.T) {
	m := helpers.NewMockDirectory()
	td := helpers.NewTestData()

	m.ExpectGovernanceGroups([]*directory.Group{
		td.SimpleGroup("g1", "_GS_Finance_RW"),
		td.SimpleGroup("g2", "_GS_Legal_RW"),
	})
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "parent1").
		Return([]*directory.FolderItem{
			td.SimpleFolder("f1", "Finance"),
			td.SimpleFolder("f2", "Legal"),
		}, nil)

	m.ExpectJournaledRun()
	m.Publisher.On("PublishOperationStarted", mock.Anything).Return()
	m.Publisher.On("PublishOperationProgress", mock.Anything).Return()
	m.Publisher.On("PublishOperationCompleted", mock.Anything).Return()
	m.Client.On("BreakInheritance", mock.Anything, "site1", "drive1", mock.Anything).Return(nil)

	// Finance aborts mid-protocol, Legal succeeds
	m.Client.On("ListFolderPermissions", mock.Anything, "site1", "drive1", "f1").
		Return(([]*directory.Permission)(nil), errors.New("throttled"))
	m.ExpectFolderPermissions("f2", []*directory.Permission{})
	m.Client.On("GrantAccess", mock.Anything, "site1", "drive1", "f2", mock.Anything).Return(nil)

	service := newBulkServiceUnderTest(m)

	result, err := service.ApplyToChildren(context.Background(), "site1", "drive1", "parent1",
		[]string{"f1", "f2"})

	require.NoError(t, err)
	require.Len(t, result.Folders, 2)

	assert.NotEmpty(t, result.Folders[0].Error)
	assert.Empty(t, result.Folders[1].Error)
	assert.Equal(t, governance.ApplyStatusApplied, result.Folders[1].Result.Status())
}
