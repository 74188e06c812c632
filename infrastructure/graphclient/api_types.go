package graphclient

// Wire shapes for the Graph v1.0 endpoints this client touches. Kept
// separate from domain types so API quirks stay at the boundary.

// collectionJSON is the paginated envelope Graph wraps around every
// listing response.
type collectionJSON[T any] struct {
	Value []T `json:"value"`
}

// errorJSON is Graph's error body: {"error": {"code": ..., "message": ...}}.
type errorJSON struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type siteJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

type driveJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type driveItemJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	WebURL string `json:"webUrl"`
	// Folder is the drive item facet; non-nil means the item is a folder.
	Folder          *struct{} `json:"folder"`
	ParentReference *struct {
		ID   string `json:"id"`
		Path string `json:"path"`
	} `json:"parentReference"`
}

type identityJSON struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// grantedToV2JSON carries the principal a permission entry is bound to.
// Sharing links and application grants leave both fields nil.
type grantedToV2JSON struct {
	Group     *identityJSON `json:"group"`
	SiteGroup *identityJSON `json:"siteGroup"`
}

type permissionJSON struct {
	ID          string          `json:"id"`
	Roles       []string        `json:"roles"`
	GrantedToV2 grantedToV2JSON `json:"grantedToV2"`
}

type groupJSON struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type userJSON struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
	Mail              string `json:"mail"`
}

// directoryObjectJSON is a memberOf entry; the odata type discriminates
// groups from directory roles, which share the endpoint.
type directoryObjectJSON struct {
	ODataType   string `json:"@odata.type"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

const odataTypeGroup = "#microsoft.graph.group"

// inviteJSON is the drive item invite payload used for silent ACL grants:
// sign-in required, no notification mail.
type inviteJSON struct {
	RequireSignIn  bool            `json:"requireSignIn"`
	SendInvitation bool            `json:"sendInvitation"`
	Roles          []string        `json:"roles"`
	Recipients     []recipientJSON `json:"recipients"`
}

type recipientJSON struct {
	ObjectID string `json:"objectId"`
}

// memberRefJSON is the $ref body for adding a group member.
type memberRefJSON struct {
	ODataID string `json:"@odata.id"`
}
