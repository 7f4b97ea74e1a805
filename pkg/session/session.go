// Package session provides session management for authenticated users.
//
// This package defines interfaces for session storage and OAuth state management,
// with implementations for different backends:
//   - memory: In-memory storage for development and single-instance deployments
//   - redis: Redis-backed storage for multi-instance deployments
//   - file: File-based storage for CLI usage
//
// Sessions store Salesforce OAuth tokens and user identity with automatic
// expiration. OAuth state tokens provide CSRF protection during the
// authorization-code flow; they are short-lived and single-use.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")

	// ErrInvalidState is returned when an OAuth state token is invalid or already used.
	ErrInvalidState = errors.New("invalid or expired state token")
)

// Default durations.
const (
	// DefaultTTL is the default session duration.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultStateTTL is the default OAuth state token duration.
	DefaultStateTTL = 10 * time.Minute
)

// Session stores a user's Salesforce OAuth tokens and identity.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	InstanceURL  string    `json:"instance_url"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	OrgID        string    `json:"org_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// CacheScope returns an identifier used to namespace cached describe data
// by org, so two users in the same org share cache entries but orgs never
// leak schema to each other.
func (s *Session) CacheScope() string {
	if s == nil || s.OrgID == "" {
		return ""
	}
	return "org:" + s.OrgID
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, ErrNotFound if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error
}

// StateStore manages OAuth state tokens for CSRF protection.
// For multi-instance deployments, use Redis to share state across instances.
type StateStore interface {
	// Generate creates a new state token and stores it with the given TTL.
	Generate(ctx context.Context, ttl time.Duration) (string, error)

	// Validate checks if a state token is valid and removes it (single-use).
	// Returns true if the token was valid and not expired.
	Validate(ctx context.Context, state string) (bool, error)

	// Cleanup removes expired state tokens (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error
}

// GenerateID creates a new session identifier.
func GenerateID() string {
	return uuid.NewString()
}

// GenerateState creates a cryptographically secure random state token.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// New creates a session for the given Salesforce tokens and identity.
func New(accessToken, refreshToken, instanceURL string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:           GenerateID(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		InstanceURL:  instanceURL,
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}
}
