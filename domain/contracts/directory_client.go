package contracts

import (
	"context"

	"spgovern/domain/directory"
)

// TokenProvider acquires bearer credentials for the directory API.
// Implementations must return a currently-valid token on every call; the
// directory client re-acquires per request and never caches one itself.
type TokenProvider interface {
	AcquireAccessToken(ctx context.Context) (string, error)
}

// GrantRequest describes a silent ACL grant on a folder: no notification
// mail, sign-in required.
type GrantRequest struct {
	RecipientGroupID string
	Roles            []string
}

// DirectoryClient abstracts the remote directory/file-sharing API
// (Microsoft Graph). All listing calls unwrap the paginated "value"
// envelope and return plain ordered slices; absence of data is an empty
// slice, never an error.
type DirectoryClient interface {
	// Site structure
	ListSites(ctx context.Context, search string) ([]*directory.Site, error)
	ListDrives(ctx context.Context, siteID string) ([]*directory.Drive, error)
	// ListFolderChildren lists folder-typed children only, excluding the
	// system-reserved "Forms" folder. Empty folderID targets the root.
	ListFolderChildren(ctx context.Context, siteID, driveID, folderID string) ([]*directory.FolderItem, error)

	// Folder permissions
	ListFolderPermissions(ctx context.Context, siteID, driveID, folderID string) ([]*directory.Permission, error)
	// BreakInheritance issues the enable/disable inheritance pair that
	// forces a fresh, isolated permission set on the folder. The intent is
	// idempotent.
	BreakInheritance(ctx context.Context, siteID, driveID, folderID string) error
	DeletePermission(ctx context.Context, siteID, driveID, folderID, permissionID string) error
	GrantAccess(ctx context.Context, siteID, driveID, folderID string, grant GrantRequest) error

	// Groups and membership
	ListGovernanceGroups(ctx context.Context) ([]*directory.Group, error)
	ListGroupMembers(ctx context.Context, groupID string) ([]*directory.User, error)
	// ListUserGroups returns the user's memberships filtered to actual
	// groups; directory roles sharing the memberOf endpoint are excluded.
	ListUserGroups(ctx context.Context, userID string) ([]*directory.Group, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// Users
	SearchUsers(ctx context.Context, query string) ([]*directory.User, error)
}
