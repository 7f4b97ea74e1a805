// Package config loads application configuration from a TOML file with
// environment variable overrides.
//
// Configuration is resolved in order of precedence (highest wins):
//  1. Environment variables (SFVIEWER_* prefix)
//  2. TOML config file (--config flag or ~/.config/schemaviewer/config.toml)
//  3. Built-in defaults
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Jaganpro/sf-schema-viewer/pkg/errors"
)

// Defaults.
const (
	DefaultListenAddr = ":8080"
	DefaultLoginURL   = "https://login.salesforce.com"
	DefaultAPIVersion = "v59.0"
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// Salesforce holds connected-app OAuth settings.
type Salesforce struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	CallbackURL  string `toml:"callback_url"`
	LoginURL     string `toml:"login_url"`
	APIVersion   string `toml:"api_version"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr        string `toml:"addr"`
	FrontendURL string `toml:"frontend_url"`
	// SecureCookies marks session cookies Secure; enable behind TLS.
	SecureCookies bool `toml:"secure_cookies"`
}

// Cache holds cache backend settings. Backend selects the implementation:
// "file" (default), "redis", "mongo", or "none".
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	MongoURI  string `toml:"mongo_uri"`
	MongoDB   string `toml:"mongo_db"`
}

// Sessions holds session store settings. Backend selects the implementation:
// "memory" (default), "file", or "redis".
type Sessions struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"-"`
	TTLString string        `toml:"ttl"`
}

// Config is the root configuration.
type Config struct {
	Salesforce Salesforce `toml:"salesforce"`
	Server     Server     `toml:"server"`
	Cache      Cache      `toml:"cache"`
	Sessions   Sessions   `toml:"sessions"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Salesforce: Salesforce{
			LoginURL:   DefaultLoginURL,
			APIVersion: DefaultAPIVersion,
		},
		Server: Server{
			Addr: DefaultListenAddr,
		},
		Cache: Cache{
			Backend: "file",
		},
		Sessions: Sessions{
			Backend: "memory",
			TTL:     DefaultSessionTTL,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "schemaviewer", "config.toml")
}

// Load reads configuration from path (optional), then applies environment
// overrides. A missing file at the default path is not an error; a missing
// file at an explicitly requested path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file")
		}
	case os.IsNotExist(err):
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file")
	}

	cfg.applyEnv()

	if cfg.Sessions.TTLString != "" {
		ttl, err := time.ParseDuration(cfg.Sessions.TTLString)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse sessions.ttl")
		}
		cfg.Sessions.TTL = ttl
	}

	return cfg, nil
}

// applyEnv overrides fields from SFVIEWER_* environment variables.
func (c *Config) applyEnv() {
	setString(&c.Salesforce.ClientID, "SFVIEWER_SF_CLIENT_ID")
	setString(&c.Salesforce.ClientSecret, "SFVIEWER_SF_CLIENT_SECRET")
	setString(&c.Salesforce.CallbackURL, "SFVIEWER_SF_CALLBACK_URL")
	setString(&c.Salesforce.LoginURL, "SFVIEWER_SF_LOGIN_URL")
	setString(&c.Salesforce.APIVersion, "SFVIEWER_SF_API_VERSION")

	setString(&c.Server.Addr, "SFVIEWER_ADDR")
	setString(&c.Server.FrontendURL, "SFVIEWER_FRONTEND_URL")
	setBool(&c.Server.SecureCookies, "SFVIEWER_SECURE_COOKIES")

	setString(&c.Cache.Backend, "SFVIEWER_CACHE_BACKEND")
	setString(&c.Cache.Dir, "SFVIEWER_CACHE_DIR")
	setString(&c.Cache.RedisAddr, "SFVIEWER_CACHE_REDIS_ADDR")
	setInt(&c.Cache.RedisDB, "SFVIEWER_CACHE_REDIS_DB")
	setString(&c.Cache.MongoURI, "SFVIEWER_CACHE_MONGO_URI")
	setString(&c.Cache.MongoDB, "SFVIEWER_CACHE_MONGO_DB")

	setString(&c.Sessions.Backend, "SFVIEWER_SESSION_BACKEND")
	setString(&c.Sessions.Dir, "SFVIEWER_SESSION_DIR")
	setString(&c.Sessions.RedisAddr, "SFVIEWER_SESSION_REDIS_ADDR")
	setString(&c.Sessions.TTLString, "SFVIEWER_SESSION_TTL")
}

// Validate checks fields required for serving the OAuth-backed API.
func (c *Config) Validate() error {
	if c.Salesforce.ClientID == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "salesforce.client_id is required")
	}
	if c.Salesforce.ClientSecret == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "salesforce.client_secret is required")
	}
	if c.Salesforce.CallbackURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "salesforce.callback_url is required")
	}
	if err := errors.ValidateURL(c.Salesforce.CallbackURL); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.Salesforce.LoginURL); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
