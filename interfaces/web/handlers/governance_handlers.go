package handlers

import (
	"net/http"

	"spgovern/application"
	"spgovern/domain/governance"
	"spgovern/interfaces/web/presenters"
	"spgovern/logging"
)

// GovernanceHandlers serves the permission-mutating endpoints: single
// folder isolation, bulk application, and the reconciliation view.
type GovernanceHandlers struct {
	applyService *application.ApplyService
	bulkService  *application.BulkApplyService
	presenter    *presenters.GovernancePresenter
	logger       *logging.Logger
}

// NewGovernanceHandlers creates governance handlers.
func NewGovernanceHandlers(
	applyService *application.ApplyService,
	bulkService *application.BulkApplyService,
	presenter *presenters.GovernancePresenter,
) *GovernanceHandlers {
	return &GovernanceHandlers{
		applyService: applyService,
		bulkService:  bulkService,
		presenter:    presenter,
		logger:       logging.Default().WithComponent("governance_handler"),
	}
}

type applyRequest struct {
	SiteID     string                      `json:"siteId"`
	DriveID    string                      `json:"driveId"`
	FolderID   string                      `json:"folderId"`
	FolderName string                      `json:"folderName"`
	Selections []governance.GrantSelection `json:"selections"`
}

// Apply runs the isolation protocol on one folder.
// POST /api/permissions/apply
func (h *GovernanceHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.SiteID == "" || req.DriveID == "" || req.FolderID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "siteId, driveId and folderId are required"})
		return
	}
	if len(req.Selections) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "at least one group selection is required"})
		return
	}

	result, err := h.applyService.Apply(r.Context(), req.SiteID, req.DriveID, req.FolderID, req.FolderName, req.Selections)
	if err != nil {
		h.logger.Error("Apply failed", "folder_id", req.FolderID, "error", err)
		// A mid-protocol abort still carries partial accounting; surface
		// both so the operator sees how far the run got.
		if result != nil {
			writeJSON(w, http.StatusBadGateway, struct {
				Error  string                    `json:"error"`
				Result *presenters.ApplyResultVM `json:"result"`
			}{Error: err.Error(), Result: h.presenter.FormatApplyResult(result)})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.presenter.FormatApplyResult(result))
}

type bulkApplyRequest struct {
	SiteID         string   `json:"siteId"`
	DriveID        string   `json:"driveId"`
	ParentFolderID string   `json:"parentFolderId"`
	FolderIDs      []string `json:"folderIds"`
}

// BulkApply matches governance groups against selected child folders and
// applies each match set.
// POST /api/permissions/bulk
func (h *GovernanceHandlers) BulkApply(w http.ResponseWriter, r *http.Request) {
	var req bulkApplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.SiteID == "" || req.DriveID == "" || req.ParentFolderID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "siteId, driveId and parentFolderId are required"})
		return
	}
	if len(req.FolderIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no folders selected"})
		return
	}

	result, err := h.bulkService.ApplyToChildren(r.Context(), req.SiteID, req.DriveID, req.ParentFolderID, req.FolderIDs)
	if err != nil {
		h.logger.Error("Bulk apply failed to start", "parent_folder_id", req.ParentFolderID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.presenter.FormatBulkResult(result))
}

// ListIncompleteOperations returns apply runs that never completed, for
// the reconciliation view.
// GET /api/operations/incomplete
func (h *GovernanceHandlers) ListIncompleteOperations(w http.ResponseWriter, r *http.Request) {
	operations, err := h.applyService.ListIncompleteOperations(r.Context())
	if err != nil {
		h.logger.Error("Failed to list incomplete operations", "error", err)
		writeError(w, err)
		return
	}
	if operations == nil {
		operations = []*governance.Operation{}
	}
	writeJSON(w, http.StatusOK, operations)
}
