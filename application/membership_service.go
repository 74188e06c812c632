package application

import (
	"context"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
	"spgovern/domain/governance"
	"spgovern/logging"
)

// MembershipService manages group membership: direct add/remove and the
// clone workflow that replays one user's memberships onto another.
type MembershipService struct {
	client contracts.DirectoryClient
	logger *logging.Logger
}

// NewMembershipService creates a membership service.
func NewMembershipService(client contracts.DirectoryClient) *MembershipService {
	return &MembershipService{
		client: client,
		logger: logging.Default().WithComponent("membership_service"),
	}
}

// Clone replays the source user's group memberships onto the target user.
// The operation is additive and at-least-once: a per-group failure (most
// commonly "already a member") is recorded and cloning continues through
// the full list. No compensating removal happens on partial failure.
func (s *MembershipService) Clone(ctx context.Context, sourceUserID, targetUserID string) (*governance.CloneResult, error) {
	groups, err := s.client.ListUserGroups(ctx, sourceUserID)
	if err != nil {
		return nil, err
	}

	result := &governance.CloneResult{
		SourceUserID: sourceUserID,
		TargetUserID: targetUserID,
		Succeeded:    []directory.Group{},
		Failed:       []governance.GroupFailure{},
	}

	for _, group := range groups {
		if err := s.client.AddGroupMember(ctx, group.ID, targetUserID); err != nil {
			s.logger.Warn("Clone: failed to add target to group",
				"group_id", group.ID, "group_name", group.DisplayName,
				"target_user_id", targetUserID, "error", err)
			result.Failed = append(result.Failed, governance.GroupFailure{
				Group: *group,
				Error: err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, *group)
	}

	s.logger.Security("Membership clone finished",
		"source_user_id", sourceUserID,
		"target_user_id", targetUserID,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))
	return result, nil
}

// AddMember adds a user to a group.
func (s *MembershipService) AddMember(ctx context.Context, groupID, userID string) error {
	if err := s.client.AddGroupMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.logger.Security("Added group member", "group_id", groupID, "user_id", userID)
	return nil
}

// RemoveMember removes a user from a group.
func (s *MembershipService) RemoveMember(ctx context.Context, groupID, userID string) error {
	if err := s.client.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.logger.Security("Removed group member", "group_id", groupID, "user_id", userID)
	return nil
}

// ListUserGroups lists the user's group memberships (groups only).
func (s *MembershipService) ListUserGroups(ctx context.Context, userID string) ([]*directory.Group, error) {
	return s.client.ListUserGroups(ctx, userID)
}

// ListGroupMembers lists a group's current members.
func (s *MembershipService) ListGroupMembers(ctx context.Context, groupID string) ([]*directory.User, error) {
	return s.client.ListGroupMembers(ctx, groupID)
}
