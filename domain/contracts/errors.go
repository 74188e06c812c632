package contracts

import (
	"errors"
	"fmt"
)

// Auth failures surfaced by TokenProvider implementations.
var (
	// ErrNotAuthenticated means no credential is available at all.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInteractionRequired means the operator must re-authenticate
	// interactively before the workflow can continue.
	ErrInteractionRequired = errors.New("interactive sign-in required")
)

// DirectoryError is a normalized non-success response from the directory
// API, carrying the server's message so it can be surfaced verbatim.
type DirectoryError struct {
	Status  int
	Message string
}

func (e *DirectoryError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("directory API request failed (status %d)", e.Status)
	}
	return e.Message
}

// IsAuthError reports whether err is a credential failure that should halt
// the current workflow step with a "must sign in again" outcome.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrInteractionRequired)
}
