package application

import (
	"context"
	"sort"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
	"spgovern/domain/governance"
	"spgovern/logging"
)

// BulkApplyService derives per-folder grant selections from the group
// naming convention and delegates each folder to the apply engine.
type BulkApplyService struct {
	client     contracts.DirectoryClient
	classifier *directory.Classifier
	apply      *ApplyService
	logger     *logging.Logger
}

// NewBulkApplyService creates a bulk matcher over the given engine.
func NewBulkApplyService(
	client contracts.DirectoryClient,
	classifier *directory.Classifier,
	apply *ApplyService,
) *BulkApplyService {
	return &BulkApplyService{
		client:     client,
		classifier: classifier,
		apply:      apply,
		logger:     logging.Default().WithComponent("bulk_apply_service"),
	}
}

// ApplyToChildren matches governance groups against the selected children
// of a parent folder and applies each match set. Folders are processed
// independently: a failure on one records an outcome and continues.
func (s *BulkApplyService) ApplyToChildren(
	ctx context.Context,
	siteID, driveID, parentFolderID string,
	selectedFolderIDs []string,
) (*governance.BulkApplyResult, error) {
	groups, err := s.client.ListGovernanceGroups(ctx)
	if err != nil {
		return nil, err
	}

	children, err := s.client.ListFolderChildren(ctx, siteID, driveID, parentFolderID)
	if err != nil {
		return nil, err
	}
	childrenByID := make(map[string]*directory.FolderItem, len(children))
	for _, child := range children {
		childrenByID[child.ID] = child
	}

	result := &governance.BulkApplyResult{}
	for _, folderID := range selectedFolderIDs {
		folder, ok := childrenByID[folderID]
		if !ok {
			// Selection raced a concurrent rename/delete; skip it.
			result.Folders = append(result.Folders, governance.FolderApplyOutcome{
				FolderID: folderID,
				Skipped:  true,
			})
			continue
		}
		result.Folders = append(result.Folders, s.applyToFolder(ctx, siteID, driveID, folder, groups))
	}
	return result, nil
}

func (s *BulkApplyService) applyToFolder(
	ctx context.Context,
	siteID, driveID string,
	folder *directory.FolderItem,
	groups []*directory.Group,
) governance.FolderApplyOutcome {
	outcome := governance.FolderApplyOutcome{
		FolderID:   folder.ID,
		FolderName: folder.Name,
	}

	outcome.Selections = s.MatchSelections(groups, folder.Name)
	if len(outcome.Selections) == 0 {
		s.logger.Info("No governance group matches folder; skipping",
			"folder_id", folder.ID, "folder_name", folder.Name)
		outcome.Skipped = true
		return outcome
	}

	applyResult, err := s.apply.Apply(ctx, siteID, driveID, folder.ID, folder.Name, outcome.Selections)
	outcome.Result = applyResult
	if err != nil {
		outcome.Error = err.Error()
		s.logger.Error("Bulk apply failed for folder",
			"folder_id", folder.ID, "folder_name", folder.Name, "error", err)
	}
	return outcome
}

// MatchSelections selects every governance group whose display name
// contains the folder name, classified to its role. Ordering is
// deterministic: write-capable groups first (the primary grant), then by
// display name.
func (s *BulkApplyService) MatchSelections(groups []*directory.Group, folderName string) []governance.GrantSelection {
	var matched []*directory.Group
	for _, group := range groups {
		if s.classifier.MatchesFolder(group.DisplayName, folderName) {
			matched = append(matched, group)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		roleI := s.classifier.RoleFor(matched[i].DisplayName)
		roleJ := s.classifier.RoleFor(matched[j].DisplayName)
		if roleI != roleJ {
			return roleI == directory.RoleWrite
		}
		return matched[i].DisplayName < matched[j].DisplayName
	})

	selections := make([]governance.GrantSelection, 0, len(matched))
	for _, group := range matched {
		selections = append(selections, governance.GrantSelection{
			GroupID: group.ID,
			Role:    s.classifier.RoleFor(group.DisplayName),
		})
	}
	return selections
}
