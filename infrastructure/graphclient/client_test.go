package graphclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spgovern/domain/contracts"
	"spgovern/domain/directory"
)

type staticTokenProvider struct {
	token string
}

func (p *staticTokenProvider) AcquireAccessToken(ctx context.Context) (string, error) {
	return p.token, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) contracts.DirectoryClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithBaseURL(&staticTokenProvider{token: "test-token"}, directory.DefaultConventions(), server.URL)
}

func TestClient_ListFolderChildren_FiltersFilesAndForms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/s1/drives/d1/root/children", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[
			{"id":"f1","name":"Finance","folder":{}},
			{"id":"forms","name":"Forms","folder":{}},
			{"id":"doc1","name":"notes.docx"}
		]}`))
	})

	folders, err := client.ListFolderChildren(context.Background(), "s1", "d1", "")

	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Finance", folders[0].Name)
}

func TestClient_ListFolderPermissions_MapsPrincipals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[
			{"id":"p1","roles":["write"],"grantedToV2":{"group":{"id":"g1","displayName":"_GS_Finance_RW"}}},
			{"id":"p2","roles":["read"],"grantedToV2":{"siteGroup":{"id":"sg1","displayName":"Finance Visitors"}}},
			{"id":"p3","roles":["read"],"grantedToV2":{}}
		]}`))
	})

	permissions, err := client.ListFolderPermissions(context.Background(), "s1", "d1", "f1")

	require.NoError(t, err)
	require.Len(t, permissions, 3)

	assert.Equal(t, "_GS_Finance_RW", permissions[0].PrincipalDisplayName())
	assert.Equal(t, "g1", permissions[0].Group.ID)
	assert.Equal(t, "Finance Visitors", permissions[1].PrincipalDisplayName())
	assert.Nil(t, permissions[1].Group)
	assert.Empty(t, permissions[2].PrincipalDisplayName())
}

func TestClient_BreakInheritance_IssuesEnableThenDisable(t *testing.T) {
	var methods []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/s1/drives/d1/items/f1/inheritPermissions", r.URL.Path)
		methods = append(methods, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.BreakInheritance(context.Background(), "s1", "d1", "f1")

	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, methods)
}

func TestClient_BreakInheritance_EnableFailureStillDisables(t *testing.T) {
	var methods []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":{"code":"conflict","message":"already inherited"}}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.BreakInheritance(context.Background(), "s1", "d1", "f1")

	assert.Error(t, err)
	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, methods)
}

func TestClient_GrantAccess_SendsSilentInvite(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sites/s1/drives/d1/items/f1/invite", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, true, payload["requireSignIn"])
		assert.Equal(t, false, payload["sendInvitation"])
		assert.Equal(t, []any{"write"}, payload["roles"])

		recipients := payload["recipients"].([]any)
		require.Len(t, recipients, 1)
		assert.Equal(t, "g1", recipients[0].(map[string]any)["objectId"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"value":[]}`))
	})

	err := client.GrantAccess(context.Background(), "s1", "d1", "f1", contracts.GrantRequest{
		RecipientGroupID: "g1",
		Roles:            []string{"write"},
	})

	require.NoError(t, err)
}

func TestClient_ListUserGroups_FiltersDirectoryRoles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/memberOf", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[
			{"@odata.type":"#microsoft.graph.group","id":"g1","displayName":"_GS_Finance_RW"},
			{"@odata.type":"#microsoft.graph.directoryRole","id":"r1","displayName":"Global Reader"}
		]}`))
	})

	groups, err := client.ListUserGroups(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "g1", groups[0].ID)
}

func TestClient_SearchUsers_ShortQueryShortCircuits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a short query")
	})

	users, err := client.SearchUsers(context.Background(), "ab")

	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClient_SearchUsers_CapsResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "8", r.URL.Query().Get("$top"))
		assert.Contains(t, r.URL.Query().Get("$filter"), "startswith(displayName,'ali')")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[{"id":"u1","displayName":"Alice","userPrincipalName":"alice@example.com"}]}`))
	})

	users, err := client.SearchUsers(context.Background(), "ali")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].DisplayName)
}

func TestClient_ErrorResponsesCarryGraphMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"accessDenied","message":"Insufficient privileges"}}`))
	})

	_, err := client.ListGovernanceGroups(context.Background())

	require.Error(t, err)
	var directoryErr *contracts.DirectoryError
	require.ErrorAs(t, err, &directoryErr)
	assert.Equal(t, http.StatusForbidden, directoryErr.Status)
	assert.Equal(t, "Insufficient privileges", directoryErr.Message)
}

func TestClient_ListGovernanceGroups_FiltersByPrefix(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("$filter"), "_GS_")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[{"id":"g1","displayName":"_GS_Finance_RW"}]}`))
	})

	groups, err := client.ListGovernanceGroups(context.Background())

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "_GS_Finance_RW", groups[0].DisplayName)
}
