package application

import (
	"context"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
)

// AnnotatedPermission pairs a permission entry with its naming-convention
// classification, so the UI can mark governance and ambient entries.
type AnnotatedPermission struct {
	Permission *directory.Permission `json:"permission"`
	Kind       directory.Kind        `json:"kind"`
	Role       directory.Role        `json:"role"`
}

// AnnotatedGroup pairs a governance group with the role its name grants.
type AnnotatedGroup struct {
	Group *directory.Group `json:"group"`
	Role  directory.Role   `json:"role"`
}

// BrowseService is the read-only navigation surface: sites, drives,
// folder trees, permission listings, governance groups, user search.
type BrowseService struct {
	client     contracts.DirectoryClient
	classifier *directory.Classifier
}

// NewBrowseService creates a browse service.
func NewBrowseService(client contracts.DirectoryClient, classifier *directory.Classifier) *BrowseService {
	return &BrowseService{
		client:     client,
		classifier: classifier,
	}
}

// SearchSites lists sites matching the search term.
func (s *BrowseService) SearchSites(ctx context.Context, search string) ([]*directory.Site, error) {
	return s.client.ListSites(ctx, search)
}

// ListDrives lists a site's document libraries.
func (s *BrowseService) ListDrives(ctx context.Context, siteID string) ([]*directory.Drive, error) {
	return s.client.ListDrives(ctx, siteID)
}

// ListFolders lists folder children; empty folderID targets the root.
func (s *BrowseService) ListFolders(ctx context.Context, siteID, driveID, folderID string) ([]*directory.FolderItem, error) {
	return s.client.ListFolderChildren(ctx, siteID, driveID, folderID)
}

// ListFolderPermissions lists a folder's entries with classification.
func (s *BrowseService) ListFolderPermissions(ctx context.Context, siteID, driveID, folderID string) ([]AnnotatedPermission, error) {
	permissions, err := s.client.ListFolderPermissions(ctx, siteID, driveID, folderID)
	if err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedPermission, 0, len(permissions))
	for _, permission := range permissions {
		kind, role := s.classifier.Classify(permission.PrincipalDisplayName())
		annotated = append(annotated, AnnotatedPermission{
			Permission: permission,
			Kind:       kind,
			Role:       role,
		})
	}
	return annotated, nil
}

// ListGovernanceGroups lists the governance-managed groups, each with the
// role derived from its display name.
func (s *BrowseService) ListGovernanceGroups(ctx context.Context) ([]AnnotatedGroup, error) {
	groups, err := s.client.ListGovernanceGroups(ctx)
	if err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedGroup, 0, len(groups))
	for _, group := range groups {
		annotated = append(annotated, AnnotatedGroup{
			Group: group,
			Role:  s.classifier.RoleFor(group.DisplayName),
		})
	}
	return annotated, nil
}

// SearchUsers searches directory users; queries under three characters
// return an empty result.
func (s *BrowseService) SearchUsers(ctx context.Context, query string) ([]*directory.User, error) {
	return s.client.SearchUsers(ctx, query)
}
