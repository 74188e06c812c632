package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
	"spgovern/domain/events"
	"spgovern/domain/governance"
	"spgovern/logging"
)

// ReportService produces a read-only snapshot of governance-managed
// access under a drive. It issues no mutating calls.
type ReportService struct {
	client     contracts.DirectoryClient
	classifier *directory.Classifier
	traversal  governance.TraversalRules
	publisher  events.OperationEventPublisher
	logger     *logging.Logger
}

// NewReportService creates a reporter using the configured traversal rules.
func NewReportService(
	client contracts.DirectoryClient,
	classifier *directory.Classifier,
	traversal governance.TraversalRules,
	publisher events.OperationEventPublisher,
) *ReportService {
	return &ReportService{
		client:     client,
		classifier: classifier,
		traversal:  traversal,
		publisher:  publisher,
		logger:     logging.Default().WithComponent("report_service"),
	}
}

// auditTarget is one folder queued for permission inspection.
type auditTarget struct {
	folder *directory.FolderItem
	path   string
}

// Generate walks the configured containers and reports every folder that
// carries at least one governance group with at least one member. An
// absent root container yields an empty report, not an error.
func (s *ReportService) Generate(ctx context.Context, siteID, driveID string) ([]governance.AuditEntry, error) {
	targets, err := s.collectTargets(ctx, siteID, driveID)
	if err != nil {
		return nil, err
	}

	entries := []governance.AuditEntry{}
	for _, target := range targets {
		s.publisher.PublishOperationProgress(events.OperationProgressEvent{
			Message:   fmt.Sprintf("auditing folder %s", target.folder.Name),
			Timestamp: time.Now(),
		})

		entry, err := s.auditFolder(ctx, siteID, driveID, target)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
	}

	s.logger.Info("Report generated",
		"site_id", siteID, "drive_id", driveID,
		"folders_audited", len(targets), "entries", len(entries))
	return entries, nil
}

// collectTargets resolves the traversal shape: audit the root container's
// children directly, and the nested container's children one level deeper.
// The containers themselves are never audited.
func (s *ReportService) collectTargets(ctx context.Context, siteID, driveID string) ([]auditTarget, error) {
	rootFolders, err := s.client.ListFolderChildren(ctx, siteID, driveID, "")
	if err != nil {
		return nil, err
	}

	var rootContainer *directory.FolderItem
	for _, folder := range rootFolders {
		if strings.EqualFold(folder.Name, s.traversal.RootContainer) {
			rootContainer = folder
			break
		}
	}
	if rootContainer == nil {
		s.logger.Warn("Report root container not found; producing empty report",
			"root_container", s.traversal.RootContainer)
		return nil, nil
	}

	children, err := s.client.ListFolderChildren(ctx, siteID, driveID, rootContainer.ID)
	if err != nil {
		return nil, err
	}

	var targets []auditTarget
	for _, child := range children {
		if strings.EqualFold(child.Name, s.traversal.NestedContainer) {
			grandchildren, err := s.client.ListFolderChildren(ctx, siteID, driveID, child.ID)
			if err != nil {
				return nil, err
			}
			nestedPath := s.traversal.RootContainer + " / " + s.traversal.NestedContainer
			for _, grandchild := range grandchildren {
				targets = append(targets, auditTarget{folder: grandchild, path: nestedPath})
			}
			continue
		}
		targets = append(targets, auditTarget{folder: child, path: s.traversal.RootContainer})
	}
	return targets, nil
}

// auditFolder returns nil when the folder has no qualifying groups.
func (s *ReportService) auditFolder(ctx context.Context, siteID, driveID string, target auditTarget) (*governance.AuditEntry, error) {
	permissions, err := s.client.ListFolderPermissions(ctx, siteID, driveID, target.folder.ID)
	if err != nil {
		return nil, fmt.Errorf("read permissions for folder %s: %w", target.folder.Name, err)
	}

	var groups []governance.AuditGroup
	for _, permission := range permissions {
		name := permission.PrincipalDisplayName()
		if !s.classifier.IsGovernance(name) {
			continue
		}
		if permission.Group == nil || permission.Group.ID == "" {
			// Governance-named site group without a directory identity;
			// membership cannot be resolved.
			continue
		}

		members, err := s.client.ListGroupMembers(ctx, permission.Group.ID)
		if err != nil {
			// An unresolvable membership counts as zero members, never as
			// a report failure.
			s.logger.Warn("Failed to resolve group members for report",
				"group_id", permission.Group.ID, "group_name", name, "error", err)
			continue
		}
		if len(members) == 0 {
			continue
		}

		memberValues := make([]directory.User, 0, len(members))
		for _, member := range members {
			memberValues = append(memberValues, *member)
		}
		groups = append(groups, governance.AuditGroup{
			Name:    name,
			Role:    permission.PrimaryRole(),
			Members: memberValues,
		})
	}

	if len(groups) == 0 {
		return nil, nil
	}
	return &governance.AuditEntry{
		FolderPath: target.path,
		FolderName: target.folder.Name,
		Groups:     groups,
	}, nil
}
