package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"spgovern/domain/contracts"
	"spgovern/logging"
)

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Error string `json:"error"`
	// AuthRequired tells the SPA to trigger an interactive sign-in.
	AuthRequired bool `json:"authRequired,omitempty"`
}

// writeJSON encodes a response body with the right content type.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain failures onto HTTP status codes: auth failures
// become 401 with the sign-in hint, directory API failures pass the
// server's message through on 502, everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	if contracts.IsAuthError(err) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:        err.Error(),
			AuthRequired: true,
		})
		return
	}

	var directoryErr *contracts.DirectoryError
	if errors.As(err, &directoryErr) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: directoryErr.Error()})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
