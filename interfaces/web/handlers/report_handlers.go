package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spgovern/application"
	"spgovern/interfaces/web/presenters"
	"spgovern/logging"
)

// ReportHandlers serves the read-only governance access report.
type ReportHandlers struct {
	reportService *application.ReportService
	presenter     *presenters.ReportPresenter
	logger        *logging.Logger
}

// NewReportHandlers creates report handlers.
func NewReportHandlers(
	reportService *application.ReportService,
	presenter *presenters.ReportPresenter,
) *ReportHandlers {
	return &ReportHandlers{
		reportService: reportService,
		presenter:     presenter,
		logger:        logging.Default().WithComponent("report_handler"),
	}
}

// Generate walks the drive and returns the governance access report.
// GET /api/sites/{siteID}/drives/{driveID}/report
func (h *ReportHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")
	driveID := chi.URLParam(r, "driveID")

	entries, err := h.reportService.Generate(r.Context(), siteID, driveID)
	if err != nil {
		h.logger.Error("Report generation failed",
			"site_id", siteID, "drive_id", driveID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.FormatReport(entries))
}
