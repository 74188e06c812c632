package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
)

// MockDirectoryClient implements DirectoryClient for testing
type MockDirectoryClient struct {
	mock.Mock
}

func (m *MockDirectoryClient) ListSites(ctx context.Context, search string) ([]*directory.Site, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Site), args.Error(1)
}

func (m *MockDirectoryClient) ListDrives(ctx context.Context, siteID string) ([]*directory.Drive, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Drive), args.Error(1)
}

func (m *MockDirectoryClient) ListFolderChildren(ctx context.Context, siteID, driveID, folderID string) ([]*directory.FolderItem, error) {
	args := m.Called(ctx, siteID, driveID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.FolderItem), args.Error(1)
}

func (m *MockDirectoryClient) ListFolderPermissions(ctx context.Context, siteID, driveID, folderID string) ([]*directory.Permission, error) {
	args := m.Called(ctx, siteID, driveID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Permission), args.Error(1)
}

func (m *MockDirectoryClient) BreakInheritance(ctx context.Context, siteID, driveID, folderID string) error {
	args := m.Called(ctx, siteID, driveID, folderID)
	return args.Error(0)
}

func (m *MockDirectoryClient) DeletePermission(ctx context.Context, siteID, driveID, folderID, permissionID string) error {
	args := m.Called(ctx, siteID, driveID, folderID, permissionID)
	return args.Error(0)
}

func (m *MockDirectoryClient) GrantAccess(ctx context.Context, siteID, driveID, folderID string, grant contracts.GrantRequest) error {
	args := m.Called(ctx, siteID, driveID, folderID, grant)
	return args.Error(0)
}

func (m *MockDirectoryClient) ListGovernanceGroups(ctx context.Context) ([]*directory.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Group), args.Error(1)
}

func (m *MockDirectoryClient) ListGroupMembers(ctx context.Context, groupID string) ([]*directory.User, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.User), args.Error(1)
}

func (m *MockDirectoryClient) ListUserGroups(ctx context.Context, userID string) ([]*directory.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.Group), args.Error(1)
}

func (m *MockDirectoryClient) AddGroupMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockDirectoryClient) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockDirectoryClient) SearchUsers(ctx context.Context, query string) ([]*directory.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*directory.User), args.Error(1)
}
