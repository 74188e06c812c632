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

func newReportServiceUnderTest(m *helpers.MockDirectory) *ReportService {
	classifier := directory.NewClassifier(directory.DefaultConventions())
	rules := governance.TraversalRules{RootContainer: "General", NestedContainer: "Compartilha"}
	return NewReportService(m.Client, classifier, rules, m.Publisher)
}

func TestReportService_Generate_TraversalShape(t *testing.T) {
	m := helpers.NewMockDirectory()
	td := helpers.NewTestData()

	m.Publisher.On("PublishOperationProgress", mock.Anything).Return()

	// Drive root: the configured container plus an unrelated sibling
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "").
		Return([]*directory.FolderItem{
			td.SimpleFolder("root1", "General"),
			td.SimpleFolder("other1", "Archive"),
		}, nil)

	// General's children: one ordinary folder plus the nested container
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "root1").
		Return([]*directory.FolderItem{
			td.SimpleFolder("f1", "Finance"),
			td.SimpleFolder("nested1", "Compartilha"),
		}, nil)

	// Compartilha's children audited one level deeper
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "nested1").
		Return([]*directory.FolderItem{
			td.SimpleFolder("f2", "Vendors"),
		}, nil)

	m.ExpectFolderPermissions("f1", []*directory.Permission{
		td.GroupPermission("p1", "g1", "_GS_Finance_RW", "write"),
	})
	m.ExpectFolderPermissions("f2", []*directory.Permission{
		td.GroupPermission("p2", "g2", "_GS_Vendors_R", "read"),
	})

	m.Client.On("ListGroupMembers", mock.Anything, "g1").
		Return([]*directory.User{td.SimpleUser("u1", "Alice")}, nil)
	m.Client.On("ListGroupMembers", mock.Anything, "g2").
		Return([]*directory.User{td.SimpleUser("u2", "Bob")}, nil)

	service := newReportServiceUnderTest(m)

	entries, err := service.Generate(context.Background(), "site1", "drive1")

	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "General", entries[0].FolderPath)
	assert.Equal(t, "Finance", entries[0].FolderName)
	require.Len(t, entries[0].Groups, 1)
	assert.Equal(t, "_GS_Finance_RW", entries[0].Groups[0].Name)
	assert.Equal(t, "write", entries[0].Groups[0].Role)
	assert.Equal(t, "Alice", entries[0].Groups[0].Members[0].DisplayName)

	assert.Equal(t, "General / Compartilha", entries[1].FolderPath)
	assert.Equal(t, "Vendors", entries[1].FolderName)

	m.AssertAllExpectations(t)
}

func TestReportService_Generate_MissingRootContainerIsEmpty(t *testing.T) {
	m := helpers.NewMockDirectory()
	td := helpers.NewTestData()

	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "").
		Return([]*directory.FolderItem{td.SimpleFolder("other1", "Archive")}, nil)

	service := newReportServiceUnderTest(m)

	entries, err := service.Generate(context.Background(), "site1", "drive1")

	require.NoError(t, err)
	assert.Empty(t, entries)
	m.AssertAllExpectations(t)
}

func TestReportService_Generate_OmitsFoldersWithoutQualifyingGroups(t *testing.T) {
	m := helpers.NewMockDirectory()
	td := helpers.NewTestData()

	m.Publisher.On("PublishOperationProgress", mock.Anything).Return()

	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "").
		Return([]*directory.FolderItem{td.SimpleFolder("root1", "General")}, nil)
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "root1").
		Return([]*directory.FolderItem{
			td.SimpleFolder("f1", "Finance"),
			td.SimpleFolder("f2", "Legal"),
			td.SimpleFolder("f3", "Sales"),
		}, nil)

	// Finance: only ambient entries, no governance group
	m.ExpectFolderPermissions("f1", []*directory.Permission{
		td.SiteGroupPermission("p1", "Finance Visitors", "read"),
	})
	// Legal: governance group present but with zero members
	m.ExpectFolderPermissions("f2", []*directory.Permission{
		td.GroupPermission("p2", "g2", "_GS_Legal_R", "read"),
	})
	m.Client.On("ListGroupMembers", mock.Anything, "g2").Return([]*directory.User{}, nil)
	// Sales: qualifying group with members
	m.ExpectFolderPermissions("f3", []*directory.Permission{
		td.GroupPermission("p3", "g3", "_GS_Sales_RW", "write"),
	})
	m.Client.On("ListGroupMembers", mock.Anything, "g3").
		Return([]*directory.User{td.SimpleUser("u1", "Carol")}, nil)

	service := newReportServiceUnderTest(m)

	entries, err := service.Generate(context.Background(), "site1", "drive1")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sales", entries[0].FolderName)
	m.AssertAllExpectations(t)
}

func TestReportService_Generate_MembershipFailureTolerated(t *testing.T) {
	m := helpers.NewMockDirectory()
	td := helpers.NewTestData()

	m.Publisher.On("PublishOperationProgress", mock.Anything).Return()

	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "").
		Return([]*directory.FolderItem{td.SimpleFolder("root1", "General")}, nil)
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "root1").
		Return([]*directory.FolderItem{td.SimpleFolder("f1", "Finance")}, nil)

	m.ExpectFolderPermissions("f1", []*directory.Permission{
		td.GroupPermission("p1", "g1", "_GS_Finance_RW", "write"),
	})
	m.Client.On("ListGroupMembers", mock.Anything, "g1").
		Return(([]*directory.User)(nil), errors.New("group deleted"))

	service := newReportServiceUnderTest(m)

	entries, err := service.Generate(context.Background(), "site1", "drive1")

	// The unresolvable group counts as zero members; the folder drops out
	require.NoError(t, err)
	assert.Empty(t, entries)
	m.AssertAllExpectations(t)
}

func TestReportService_Generate_PermissionReadFailureIsFatal(t *testing.T) {
	m := helpers.NewMockDirectory()
	td := helpers.NewTestData()

	m.Publisher.On("PublishOperationProgress", mock.Anything).Return()

	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "").
		Return([]*directory.FolderItem{td.SimpleFolder("root1", "General")}, nil)
	m.Client.On("ListFolderChildren", mock.Anything, "site1", "drive1", "root1").
		Return([]*directory.FolderItem{td.SimpleFolder("f1", "Finance")}, nil)
	m.Client.On("ListFolderPermissions", mock.Anything, "site1", "drive1", "f1").
		Return(([]*directory.Permission)(nil), errors.New("throttled"))

	service := newReportServiceUnderTest(m)

	entries, err := service.Generate(context.Background(), "site1", "drive1")

	assert.Error(t, err)
	assert.Nil(t, entries)
	assert.Contains(t, err.Error(), "Finance")
	m.AssertAllExpectations(t)
}
