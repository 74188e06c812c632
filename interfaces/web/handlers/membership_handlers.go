package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spgovern/application"
	"spgovern/logging"
)

// MembershipHandlers serves group membership management and the
// membership clone workflow.
type MembershipHandlers struct {
	membershipService *application.MembershipService
	logger            *logging.Logger
}

// NewMembershipHandlers creates membership handlers.
func NewMembershipHandlers(membershipService *application.MembershipService) *MembershipHandlers {
	return &MembershipHandlers{
		membershipService: membershipService,
		logger:            logging.Default().WithComponent("membership_handler"),
	}
}

// ListGroupMembers lists a group's members.
// GET /api/groups/{groupID}/members
func (h *MembershipHandlers) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	members, err := h.membershipService.ListGroupMembers(r.Context(), groupID)
	if err != nil {
		h.logger.Error("Member listing failed", "group_id", groupID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

// AddGroupMember adds a user to a group.
// POST /api/groups/{groupID}/members
func (h *MembershipHandlers) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req addMemberRequest
	if err := decodeBody(r, &req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "userId is required"})
		return
	}

	if err := h.membershipService.AddMember(r.Context(), groupID, req.UserID); err != nil {
		h.logger.Error("Add member failed", "group_id", groupID, "user_id", req.UserID, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveGroupMember removes a user from a group.
// DELETE /api/groups/{groupID}/members/{userID}
func (h *MembershipHandlers) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	userID := chi.URLParam(r, "userID")

	if err := h.membershipService.RemoveMember(r.Context(), groupID, userID); err != nil {
		h.logger.Error("Remove member failed", "group_id", groupID, "user_id", userID, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserGroups lists a user's group memberships.
// GET /api/users/{userID}/groups
func (h *MembershipHandlers) ListUserGroups(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	groups, err := h.membershipService.ListUserGroups(r.Context(), userID)
	if err != nil {
		h.logger.Error("User group listing failed", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

type cloneRequest struct {
	SourceUserID string `json:"sourceUserId"`
	TargetUserID string `json:"targetUserId"`
}

// CloneMemberships replays one user's memberships onto another.
// POST /api/memberships/clone
func (h *MembershipHandlers) CloneMemberships(w http.ResponseWriter, r *http.Request) {
	var req cloneRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.SourceUserID == "" || req.TargetUserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "sourceUserId and targetUserId are required"})
		return
	}
	if req.SourceUserID == req.TargetUserID {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "source and target users must differ"})
		return
	}

	result, err := h.membershipService.Clone(r.Context(), req.SourceUserID, req.TargetUserID)
	if err != nil {
		h.logger.Error("Clone failed to start",
			"source_user_id", req.SourceUserID, "target_user_id", req.TargetUserID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
