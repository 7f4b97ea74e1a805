package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/httputil"
)

// OAuthConfig holds connected-app credentials for the web server flow.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// LoginURL is https://login.salesforce.com for production orgs,
	// https://test.salesforce.com for sandboxes, or a My Domain URL.
	LoginURL string
}

// OAuthToken is the token endpoint response. ID is the identity URL used
// to resolve the authenticated user.
type OAuthToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	InstanceURL  string `json:"instance_url"`
	ID           string `json:"id"`
	TokenType    string `json:"token_type"`
	IssuedAt     string `json:"issued_at"`
}

// Identity is the identity URL response: who the token belongs to.
type Identity struct {
	UserID      string `json:"user_id"`
	OrgID       string `json:"organization_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// OAuthClient implements the Salesforce OAuth 2.0 web server flow.
type OAuthClient struct {
	config     OAuthConfig
	httpClient *http.Client
}

// NewOAuthClient creates a new OAuth client.
func NewOAuthClient(config OAuthConfig, httpClient *http.Client) *OAuthClient {
	if httpClient == nil {
		httpClient = httputil.NewClient()
	}
	if config.LoginURL == "" {
		config.LoginURL = "https://login.salesforce.com"
	}
	return &OAuthClient{config: config, httpClient: httpClient}
}

// AuthorizationURL returns the Salesforce authorization URL for the given
// CSRF state token.
func (c *OAuthClient) AuthorizationURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {c.config.ClientID},
		"redirect_uri":  {c.config.RedirectURI},
		"scope":         {"api refresh_token"},
		"state":         {state},
	}
	return strings.TrimRight(c.config.LoginURL, "/") + "/services/oauth2/authorize?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*OAuthToken, error) {
	return c.tokenRequest(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"redirect_uri":  {c.config.RedirectURI},
	})
}

// Refresh exchanges a refresh token for a new access token. Salesforce may
// omit a new refresh token; callers should keep the old one in that case.
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*OAuthToken, error) {
	return c.tokenRequest(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
	})
}

func (c *OAuthClient) tokenRequest(ctx context.Context, data url.Values) (*OAuthToken, error) {
	endpoint := strings.TrimRight(c.config.LoginURL, "/") + "/services/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "token request failed")
	}
	defer resp.Body.Close()

	var result struct {
		OAuthToken
		Error     string `json:"error"`
		ErrorDesc string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if result.Error != "" {
		return nil, apperrors.New(apperrors.ErrCodeSalesforceAuth,
			"%s: %s", result.Error, result.ErrorDesc)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ErrCodeSalesforceAuth,
			"token endpoint returned %d", resp.StatusCode)
	}
	return &result.OAuthToken, nil
}

// FetchIdentity resolves the identity URL returned with the token.
func (c *OAuthClient) FetchIdentity(ctx context.Context, token *OAuthToken) (*Identity, error) {
	if token.ID == "" {
		return nil, apperrors.New(apperrors.ErrCodeSalesforceAuth, "token response missing identity URL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, token.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "identity request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ErrCodeSalesforceAuth,
			"identity endpoint returned %d", resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	return &id, nil
}
