package helpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spgovern/domain/directory"
	"spgovern/domain/governance"
	"spgovern/test/mocks"
)

// MockDirectory holds the directory-facing mocks for easy injection
type MockDirectory struct {
	Client    *mocks.MockDirectoryClient
	Journal   *mocks.MockOperationJournal
	Publisher *mocks.MockOperationEventPublisher
}

// NewMockDirectory creates a new set of directory mocks
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		Client:    &mocks.MockDirectoryClient{},
		Journal:   &mocks.MockOperationJournal{},
		Publisher: &mocks.MockOperationEventPublisher{},
	}
}

// ExpectJournaledRun sets up a journal that accepts every call. Most apply
// tests exercise the engine, not the journal.
func (m *MockDirectory) ExpectJournaledRun() {
	m.Journal.On("Begin", mock.Anything, mock.Anything).Return(nil)
	m.Journal.On("Advance", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.Journal.On("Complete", mock.Anything, mock.Anything).Return(nil)
}

// ExpectPublishedEvents sets up a publisher that accepts every event.
func (m *MockDirectory) ExpectPublishedEvents() {
	m.Publisher.On("PublishOperationStarted", mock.Anything).Return()
	m.Publisher.On("PublishOperationProgress", mock.Anything).Return()
	m.Publisher.On("PublishOperationCompleted", mock.Anything).Return()
}

// ExpectFolderPermissions sets up a permission listing for one folder.
func (m *MockDirectory) ExpectFolderPermissions(folderID string, permissions []*directory.Permission) {
	m.Client.On("ListFolderPermissions", mock.Anything, mock.Anything, mock.Anything, folderID).
		Return(permissions, nil)
}

// ExpectGovernanceGroups sets up the tenant-wide governance group listing.
func (m *MockDirectory) ExpectGovernanceGroups(groups []*directory.Group) {
	m.Client.On("ListGovernanceGroups", mock.Anything).Return(groups, nil)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockDirectory) AssertAllExpectations(t mock.TestingT) {
	m.Client.AssertExpectations(t)
	m.Journal.AssertExpectations(t)
	m.Publisher.AssertExpectations(t)
}

// TestData provides simple builders for test data
type TestData struct{}

// NewTestData creates a test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// SimpleFolder creates a basic folder for testing
func (td *TestData) SimpleFolder(id, name string) *directory.FolderItem {
	return &directory.FolderItem{
		ID:   id,
		Name: name,
	}
}

// SimpleGroup creates a basic group for testing
func (td *TestData) SimpleGroup(id, displayName string) *directory.Group {
	return &directory.Group{
		ID:          id,
		DisplayName: displayName,
	}
}

// SimpleUser creates a basic user for testing
func (td *TestData) SimpleUser(id, displayName string) *directory.User {
	return &directory.User{
		ID:                id,
		DisplayName:       displayName,
		UserPrincipalName: displayName + "@test.example.com",
	}
}

// GroupPermission creates a permission entry bound to a directory group
func (td *TestData) GroupPermission(permID, groupID, groupName string, roles ...string) *directory.Permission {
	return &directory.Permission{
		ID:    permID,
		Roles: roles,
		Group: td.SimpleGroup(groupID, groupName),
	}
}

// SiteGroupPermission creates a permission entry bound to a site-scoped group
func (td *TestData) SiteGroupPermission(permID, siteGroup string, roles ...string) *directory.Permission {
	return &directory.Permission{
		ID:        permID,
		Roles:     roles,
		SiteGroup: siteGroup,
	}
}

// Selection creates a grant selection
func (td *TestData) Selection(groupID string, role directory.Role) governance.GrantSelection {
	return governance.GrantSelection{GroupID: groupID, Role: role}
}

// Helper for common test context
func TestContext() context.Context {
	return context.Background()
}
