package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Jaganpro/sf-schema-viewer/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("Load with explicit missing path should fail")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing explicit config = %v, want ErrCodeFileNotFound", err)
	}

	cfg = Default()
	if cfg.Server.Addr != DefaultListenAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, DefaultListenAddr)
	}
	if cfg.Salesforce.LoginURL != DefaultLoginURL {
		t.Errorf("LoginURL = %q, want %q", cfg.Salesforce.LoginURL, DefaultLoginURL)
	}
	if cfg.Sessions.TTL != DefaultSessionTTL {
		t.Errorf("TTL = %v, want %v", cfg.Sessions.TTL, DefaultSessionTTL)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[salesforce]
client_id = "abc"
client_secret = "secret"
callback_url = "https://example.com/auth/callback"

[server]
addr = ":9090"

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[sessions]
ttl = "48h"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Salesforce.ClientID != "abc" {
		t.Errorf("ClientID = %q, want abc", cfg.Salesforce.ClientID)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Sessions.TTL != 48*time.Hour {
		t.Errorf("TTL = %v, want 48h", cfg.Sessions.TTL)
	}
	// Defaults survive partial files.
	if cfg.Salesforce.LoginURL != DefaultLoginURL {
		t.Errorf("LoginURL = %q, want default", cfg.Salesforce.LoginURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SFVIEWER_ADDR", ":7070")
	t.Setenv("SFVIEWER_SF_CLIENT_ID", "from-env")
	t.Setenv("SFVIEWER_SECURE_COOKIES", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, env should override file", cfg.Server.Addr)
	}
	if cfg.Salesforce.ClientID != "from-env" {
		t.Errorf("ClientID = %q, want from-env", cfg.Salesforce.ClientID)
	}
	if !cfg.Server.SecureCookies {
		t.Error("SecureCookies should be true from env")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load should fail on invalid TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid TOML = %v, want ErrCodeInvalidConfig", err)
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[sessions]\nttl = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load should fail on unparseable sessions.ttl")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid ttl = %v, want ErrCodeInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should fail without client credentials")
	}

	cfg.Salesforce.ClientID = "id"
	cfg.Salesforce.ClientSecret = "secret"
	cfg.Salesforce.CallbackURL = "https://example.com/auth/callback"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	cfg.Salesforce.CallbackURL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject non-http callback URL")
	}
}
