package graphauth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"spgovern/domain/contracts"
)

const defaultScope = "https://graph.microsoft.com/.default"

// Config holds the Entra ID application registration used to call Graph.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Scope        string
}

// FromEnv reads the auth configuration. Environment should already be
// loaded by main.go.
func FromEnv() (Config, error) {
	cfg := Config{
		TenantID:     os.Getenv("GRAPH_TENANT_ID"),
		ClientID:     os.Getenv("GRAPH_CLIENT_ID"),
		ClientSecret: os.Getenv("GRAPH_CLIENT_SECRET"),
		Scope:        os.Getenv("GRAPH_SCOPE"),
	}
	if cfg.Scope == "" {
		cfg.Scope = defaultScope
	}

	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return cfg, fmt.Errorf("missing required configuration: GRAPH_TENANT_ID, GRAPH_CLIENT_ID, GRAPH_CLIENT_SECRET")
	}
	return cfg, nil
}

// TokenEndpoint returns the tenant's v2.0 token endpoint.
func (c Config) TokenEndpoint() string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", c.TenantID)
}

// Provider acquires Graph bearer tokens via the OAuth2 client-credentials
// flow. The underlying token source refreshes expired tokens on each
// acquisition, so callers always get a currently-valid credential.
type Provider struct {
	source oauth2.TokenSource
}

// NewProvider creates a token provider bound to the given registration.
func NewProvider(ctx context.Context, cfg Config) *Provider {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenEndpoint(),
		Scopes:       []string{cfg.Scope},
	}
	return &Provider{source: cc.TokenSource(ctx)}
}

// AcquireAccessToken implements contracts.TokenProvider.
func (p *Provider) AcquireAccessToken(ctx context.Context) (string, error) {
	token, err := p.source.Token()
	if err != nil {
		if isInteractionRequired(err) {
			return "", contracts.ErrInteractionRequired
		}
		return "", fmt.Errorf("%w: %v", contracts.ErrNotAuthenticated, err)
	}
	if !token.Valid() {
		return "", contracts.ErrNotAuthenticated
	}
	return token.AccessToken, nil
}

// isInteractionRequired detects token endpoint responses that demand an
// interactive re-authentication (conditional access, consent revoked).
func isInteractionRequired(err error) bool {
	if retrieve, ok := err.(*oauth2.RetrieveError); ok {
		if retrieve.ErrorCode == "interaction_required" {
			return true
		}
		return strings.Contains(string(retrieve.Body), "interaction_required")
	}
	return false
}
