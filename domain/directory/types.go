package directory

// Site represents a SharePoint site, the root of a hierarchy of drives.
type Site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

// Drive represents a document library within a site.
type Drive struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FolderItem is a folder node in a drive's tree. Only folder-typed items
// are ever surfaced; the system-reserved "Forms" folder is filtered out
// by the client.
type FolderItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WebURL   string `json:"webUrl,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

// Group represents an Entra ID directory group.
type Group struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
}

// User represents an Entra ID user.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail,omitempty"`
}

// Role is a folder permission role.
type Role string

const (
	RoleRead  Role = "read"
	RoleWrite Role = "write"
)

// String returns the Graph role literal ("read" or "write").
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role maps to a Graph role literal.
func (r Role) Valid() bool {
	return r == RoleRead || r == RoleWrite
}

// Permission is one access-control entry on a folder as reported by Graph.
// An entry is bound to a directory group, a site-scoped group, or neither
// (e.g. sharing links), in which case both fields are zero.
type Permission struct {
	ID        string   `json:"id"`
	Roles     []string `json:"roles"`
	Group     *Group   `json:"group,omitempty"`
	SiteGroup string   `json:"siteGroup,omitempty"`
}

// PrincipalDisplayName returns the display name of the granted principal,
// preferring the directory group over the site-scoped group.
func (p *Permission) PrincipalDisplayName() string {
	if p.Group != nil && p.Group.DisplayName != "" {
		return p.Group.DisplayName
	}
	return p.SiteGroup
}

// PrimaryRole returns the first role on the entry, or empty.
func (p *Permission) PrimaryRole() string {
	if len(p.Roles) == 0 {
		return ""
	}
	return p.Roles[0]
}
