package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spgovern/application"
	"spgovern/interfaces/web/presenters"
	"spgovern/logging"
)

// BrowseHandlers serves the read-only navigation endpoints the SPA walks
// while the operator picks a site, library and folder.
type BrowseHandlers struct {
	browseService *application.BrowseService
	presenter     *presenters.GovernancePresenter
	logger        *logging.Logger
}

// NewBrowseHandlers creates browse handlers.
func NewBrowseHandlers(
	browseService *application.BrowseService,
	presenter *presenters.GovernancePresenter,
) *BrowseHandlers {
	return &BrowseHandlers{
		browseService: browseService,
		presenter:     presenter,
		logger:        logging.Default().WithComponent("browse_handler"),
	}
}

// SearchSites lists sites matching a search term.
// GET /api/sites?search={term}
func (h *BrowseHandlers) SearchSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.browseService.SearchSites(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("Site search failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// ListDrives lists a site's document libraries.
// GET /api/sites/{siteID}/drives
func (h *BrowseHandlers) ListDrives(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")
	drives, err := h.browseService.ListDrives(r.Context(), siteID)
	if err != nil {
		h.logger.Error("Drive listing failed", "site_id", siteID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drives)
}

// ListFolders lists folder children; omit folderId for the drive root.
// GET /api/sites/{siteID}/drives/{driveID}/folders?folderId={id}
func (h *BrowseHandlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")
	driveID := chi.URLParam(r, "driveID")
	folderID := r.URL.Query().Get("folderId")

	folders, err := h.browseService.ListFolders(r.Context(), siteID, driveID, folderID)
	if err != nil {
		h.logger.Error("Folder listing failed",
			"site_id", siteID, "drive_id", driveID, "folder_id", folderID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

// ListFolderPermissions lists a folder's classified permission entries.
// GET /api/sites/{siteID}/drives/{driveID}/folders/{folderID}/permissions
func (h *BrowseHandlers) ListFolderPermissions(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")
	driveID := chi.URLParam(r, "driveID")
	folderID := chi.URLParam(r, "folderID")

	annotated, err := h.browseService.ListFolderPermissions(r.Context(), siteID, driveID, folderID)
	if err != nil {
		h.logger.Error("Permission listing failed",
			"site_id", siteID, "drive_id", driveID, "folder_id", folderID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.FormatPermissions(annotated))
}

// ListGovernanceGroups lists governance groups with derived roles.
// GET /api/groups
func (h *BrowseHandlers) ListGovernanceGroups(w http.ResponseWriter, r *http.Request) {
	annotated, err := h.browseService.ListGovernanceGroups(r.Context())
	if err != nil {
		h.logger.Error("Governance group listing failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.FormatGroups(annotated))
}

// SearchUsers searches directory users.
// GET /api/users/search?q={query}
func (h *BrowseHandlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.browseService.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("User search failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
