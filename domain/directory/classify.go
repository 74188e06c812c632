package directory

import "strings"

// Kind classifies a principal display name by naming convention.
type Kind int

const (
	// KindOther is any principal outside the governance conventions.
	KindOther Kind = iota
	// KindGovernance is a group carrying the governance naming prefix.
	KindGovernance
	// KindAmbient is a built-in site group ("Members", "Visitors") that
	// carries broad default access.
	KindAmbient
)

// String returns the lowercase kind label used in API responses.
func (k Kind) String() string {
	switch k {
	case KindGovernance:
		return "governance"
	case KindAmbient:
		return "ambient"
	default:
		return "other"
	}
}

// Conventions holds the naming-convention markers that drive classification.
// These are deployment configuration, not universal constants.
type Conventions struct {
	// GovernancePrefix marks a group as governance-managed, e.g. "_GS_".
	GovernancePrefix string
	// WriteMarker is a case-insensitive substring of a governance group
	// name that makes it write-capable, e.g. "RW". Absence means read-only.
	WriteMarker string
	// AmbientMarkers are case-insensitive substrings identifying default
	// site groups whose entries must be stripped on isolation.
	AmbientMarkers []string
}

// DefaultConventions returns the conventions used by the standard
// governance deployment.
func DefaultConventions() Conventions {
	return Conventions{
		GovernancePrefix: "_GS_",
		WriteMarker:      "RW",
		AmbientMarkers:   []string{"visitors", "members"},
	}
}

// Classifier is the single place where naming-convention string matching
// happens. Pure logic, no external dependencies.
type Classifier struct {
	conventions Conventions
}

// NewClassifier creates a classifier for the given conventions.
func NewClassifier(conventions Conventions) *Classifier {
	return &Classifier{conventions: conventions}
}

// Classify maps a principal display name to its kind and role.
func (c *Classifier) Classify(displayName string) (Kind, Role) {
	switch {
	case c.IsGovernance(displayName):
		return KindGovernance, c.RoleFor(displayName)
	case c.IsAmbient(displayName):
		return KindAmbient, RoleRead
	default:
		return KindOther, RoleRead
	}
}

// IsGovernance reports whether the name carries the governance prefix.
func (c *Classifier) IsGovernance(displayName string) bool {
	return strings.HasPrefix(displayName, c.conventions.GovernancePrefix)
}

// IsAmbient reports whether the name matches a default site group marker.
func (c *Classifier) IsAmbient(displayName string) bool {
	lower := strings.ToLower(displayName)
	for _, marker := range c.conventions.AmbientMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// RoleFor derives the role a group grants from its display name.
// A name containing the write marker (case-insensitive) is write-capable;
// everything else defaults to read-only.
func (c *Classifier) RoleFor(displayName string) Role {
	if c.conventions.WriteMarker == "" {
		return RoleRead
	}
	upper := strings.ToUpper(displayName)
	if strings.Contains(upper, strings.ToUpper(c.conventions.WriteMarker)) {
		return RoleWrite
	}
	return RoleRead
}

// MatchesFolder reports whether a group name references a folder name,
// case-insensitively. Used by the bulk matcher.
func (c *Classifier) MatchesFolder(groupDisplayName, folderName string) bool {
	if folderName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(groupDisplayName), strings.ToLower(folderName))
}
