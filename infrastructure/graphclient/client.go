package graphclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
	"spgovern/logging"
)

const (
	defaultBaseURL = "https://graph.microsoft.com/v1.0"
	defaultTimeout = 60 * time.Second

	// formsFolderName is the system-reserved library folder that must
	// never surface as a browsable folder.
	formsFolderName = "Forms"

	userSearchTop = 8
	minUserQuery  = 3
)

// Client implements contracts.DirectoryClient against Microsoft Graph.
// A fresh bearer token is acquired from the TokenProvider on every request
// because a multi-step workflow can outlive a single token's validity.
type Client struct {
	httpClient  *http.Client
	tokens      contracts.TokenProvider
	baseURL     string
	conventions directory.Conventions
	logger      *logging.Logger
}

// NewClient creates a Graph directory client.
func NewClient(tokens contracts.TokenProvider, conventions directory.Conventions) contracts.DirectoryClient {
	return &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		tokens:      tokens,
		baseURL:     defaultBaseURL,
		conventions: conventions,
		logger:      logging.Default().WithComponent("graph_client"),
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
// Used by tests to point at a local server.
func NewClientWithBaseURL(tokens contracts.TokenProvider, conventions directory.Conventions, baseURL string) contracts.DirectoryClient {
	c := NewClient(tokens, conventions).(*Client)
	c.baseURL = baseURL
	return c
}

// request performs one authenticated Graph call and returns the raw body.
// Non-2xx responses are normalized into *contracts.DirectoryError with the
// server's message when the body carries one.
func (c *Client) request(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	token, err := c.tokens.AcquireAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Graph("Graph request", "method", method, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory API call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseError(resp.StatusCode, raw)
	}
	return raw, nil
}

// parseError extracts Graph's error message from a failed response body.
func parseError(status int, raw []byte) error {
	directoryErr := &contracts.DirectoryError{Status: status}
	var parsed errorJSON
	if err := json.Unmarshal(raw, &parsed); err == nil {
		directoryErr.Message = parsed.Error.Message
	}
	return directoryErr
}

// getCollection fetches and unwraps a {value: []} listing response.
func getCollection[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	raw, err := c.request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var envelope collectionJSON[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode collection response: %w", err)
	}
	return envelope.Value, nil
}

func (c *Client) ListSites(ctx context.Context, search string) ([]*directory.Site, error) {
	if search == "" {
		search = "*"
	}
	items, err := getCollection[siteJSON](ctx, c, "/sites?search="+url.QueryEscape(search))
	if err != nil {
		return nil, err
	}
	return mapSites(items), nil
}

func (c *Client) ListDrives(ctx context.Context, siteID string) ([]*directory.Drive, error) {
	items, err := getCollection[driveJSON](ctx, c, fmt.Sprintf("/sites/%s/drives", siteID))
	if err != nil {
		return nil, err
	}
	return mapDrives(items), nil
}

func (c *Client) ListFolderChildren(ctx context.Context, siteID, driveID, folderID string) ([]*directory.FolderItem, error) {
	endpoint := fmt.Sprintf("/sites/%s/drives/%s/root/children", siteID, driveID)
	if folderID != "" {
		endpoint = fmt.Sprintf("/sites/%s/drives/%s/items/%s/children", siteID, driveID, folderID)
	}
	items, err := getCollection[driveItemJSON](ctx, c, endpoint)
	if err != nil {
		return nil, err
	}
	return mapFolders(items), nil
}

func (c *Client) ListFolderPermissions(ctx context.Context, siteID, driveID, folderID string) ([]*directory.Permission, error) {
	endpoint := fmt.Sprintf("/sites/%s/drives/%s/items/%s/permissions", siteID, driveID, folderID)
	items, err := getCollection[permissionJSON](ctx, c, endpoint)
	if err != nil {
		return nil, err
	}
	return mapPermissions(items), nil
}

// BreakInheritance forces a fresh permission set on the folder. The
// enable call is issued first so a previously-broken-but-stale set is
// reset before isolation; its failure does not stop the disable call.
func (c *Client) BreakInheritance(ctx context.Context, siteID, driveID, folderID string) error {
	endpoint := fmt.Sprintf("/sites/%s/drives/%s/items/%s/inheritPermissions", siteID, driveID, folderID)
	_, enableErr := c.request(ctx, http.MethodPost, endpoint, nil)
	_, disableErr := c.request(ctx, http.MethodDelete, endpoint, nil)
	return errors.Join(enableErr, disableErr)
}

func (c *Client) DeletePermission(ctx context.Context, siteID, driveID, folderID, permissionID string) error {
	endpoint := fmt.Sprintf("/sites/%s/drives/%s/items/%s/permissions/%s", siteID, driveID, folderID, permissionID)
	_, err := c.request(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (c *Client) GrantAccess(ctx context.Context, siteID, driveID, folderID string, grant contracts.GrantRequest) error {
	endpoint := fmt.Sprintf("/sites/%s/drives/%s/items/%s/invite", siteID, driveID, folderID)
	payload := inviteJSON{
		RequireSignIn:  true,
		SendInvitation: false,
		Roles:          grant.Roles,
		Recipients:     []recipientJSON{{ObjectID: grant.RecipientGroupID}},
	}
	_, err := c.request(ctx, http.MethodPost, endpoint, payload)
	return err
}

func (c *Client) ListGovernanceGroups(ctx context.Context) ([]*directory.Group, error) {
	filter := fmt.Sprintf("startswith(displayName,'%s')", c.conventions.GovernancePrefix)
	endpoint := "/groups?$filter=" + url.QueryEscape(filter) + "&$select=id,displayName,description"
	items, err := getCollection[groupJSON](ctx, c, endpoint)
	if err != nil {
		return nil, err
	}
	return mapGroups(items), nil
}

func (c *Client) ListGroupMembers(ctx context.Context, groupID string) ([]*directory.User, error) {
	items, err := getCollection[userJSON](ctx, c, fmt.Sprintf("/groups/%s/members", groupID))
	if err != nil {
		return nil, err
	}
	return mapUsers(items), nil
}

func (c *Client) ListUserGroups(ctx context.Context, userID string) ([]*directory.Group, error) {
	items, err := getCollection[directoryObjectJSON](ctx, c, fmt.Sprintf("/users/%s/memberOf", userID))
	if err != nil {
		return nil, err
	}
	return mapMemberOfGroups(items), nil
}

func (c *Client) AddGroupMember(ctx context.Context, groupID, userID string) error {
	endpoint := fmt.Sprintf("/groups/%s/members/$ref", groupID)
	payload := memberRefJSON{ODataID: defaultBaseURL + "/users/" + userID}
	_, err := c.request(ctx, http.MethodPost, endpoint, payload)
	return err
}

func (c *Client) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	endpoint := fmt.Sprintf("/groups/%s/members/%s/$ref", groupID, userID)
	_, err := c.request(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]*directory.User, error) {
	if len(query) < minUserQuery {
		return []*directory.User{}, nil
	}
	filter := fmt.Sprintf(
		"startswith(displayName,'%s') or startswith(userPrincipalName,'%s') or startswith(mail,'%s')",
		query, query, query,
	)
	endpoint := fmt.Sprintf("/users?$filter=%s&$top=%d", url.QueryEscape(filter), userSearchTop)
	items, err := getCollection[userJSON](ctx, c, endpoint)
	if err != nil {
		return nil, err
	}
	return mapUsers(items), nil
}
