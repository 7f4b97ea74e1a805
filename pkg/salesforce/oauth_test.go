package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAuthorizationURL(t *testing.T) {
	client := NewOAuthClient(OAuthConfig{
		ClientID:    "client-id",
		RedirectURI: "https://example.com/auth/callback",
		LoginURL:    "https://login.salesforce.com",
	}, nil)

	raw := client.AuthorizationURL("state-token")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse URL: %v", err)
	}
	if u.Path != "/services/oauth2/authorize" {
		t.Errorf("path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("response_type") != "code" {
		t.Errorf("response_type = %q", q.Get("response_type"))
	}
	if q.Get("state") != "state-token" {
		t.Errorf("state = %q", q.Get("state"))
	}
	if q.Get("scope") != "api refresh_token" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/oauth2/token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		r.ParseForm()
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("code"); got != "auth-code" {
			t.Errorf("code = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "token",
			"instance_url": "https://na1.salesforce.com",
			"id":           "https://login.salesforce.com/id/00D.../005...",
		})
	}))
	defer srv.Close()

	client := NewOAuthClient(OAuthConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "https://example.com/cb",
		LoginURL:     srv.URL,
	}, srv.Client())

	token, err := client.ExchangeCode(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if token.AccessToken != "token" || token.InstanceURL != "https://na1.salesforce.com" {
		t.Errorf("token = %+v", token)
	}
}

func TestExchangeCode_OAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "expired authorization code",
		})
	}))
	defer srv.Close()

	client := NewOAuthClient(OAuthConfig{LoginURL: srv.URL}, srv.Client())
	_, err := client.ExchangeCode(context.Background(), "stale-code")
	if err == nil || !strings.Contains(err.Error(), "invalid_grant") {
		t.Errorf("err = %v, want invalid_grant", err)
	}
}

func TestRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "fresh-token",
			"instance_url": "https://na1.salesforce.com",
		})
	}))
	defer srv.Close()

	client := NewOAuthClient(OAuthConfig{LoginURL: srv.URL}, srv.Client())
	token, err := client.Refresh(context.Background(), "refresh-token")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if token.AccessToken != "fresh-token" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
}

func TestFetchIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"user_id":         "005000000000001",
			"organization_id": "00D000000000001",
			"username":        "admin@example.com",
			"display_name":    "Admin User",
			"email":           "admin@example.com",
		})
	}))
	defer srv.Close()

	client := NewOAuthClient(OAuthConfig{LoginURL: srv.URL}, srv.Client())
	id, err := client.FetchIdentity(context.Background(), &OAuthToken{
		AccessToken: "token",
		ID:          srv.URL + "/id/00D000000000001/005000000000001",
	})
	if err != nil {
		t.Fatalf("FetchIdentity: %v", err)
	}
	if id.OrgID != "00D000000000001" || id.Username != "admin@example.com" {
		t.Errorf("identity = %+v", id)
	}
}

func TestFetchIdentity_MissingURL(t *testing.T) {
	client := NewOAuthClient(OAuthConfig{}, nil)
	if _, err := client.FetchIdentity(context.Background(), &OAuthToken{AccessToken: "t"}); err == nil {
		t.Error("FetchIdentity should fail without identity URL")
	}
}
