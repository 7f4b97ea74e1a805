// Package cache provides the caching layer shared by the CLI and the
// API server: describe responses from Salesforce, computed layouts, and
// rendered artifacts are all cached under content-derived keys.
//
// The Cache interface abstracts the storage backend:
//   - FileCache: directory-based, for the CLI
//   - RedisCache: shared cache for multi-instance API deployments
//   - MongoCache: document store with TTL cleanup, for the API server
//   - NullCache: caching disabled
//
// Keys are produced by a Keyer so every component derives them the same
// way; ScopedKeyer prefixes keys for per-org isolation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLs for the different cached artifact classes. Describe data changes
// whenever an admin edits the schema, so it expires quickly; layouts and
// rendered artifacts are keyed by content hash and can live longer.
const (
	TTLDescribe = 15 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the interface all cache backends implement.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DescribeKeyOpts carries the parameters that affect a describe result.
type DescribeKeyOpts struct {
	APIVersion string
}

// LayoutKeyOpts carries the parameters that affect a computed layout.
type LayoutKeyOpts struct {
	Width   float64
	Compact bool
}

// ArtifactKeyOpts carries the parameters that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
	Style  string
}

// Keyer generates cache keys for the different cached data classes.
type Keyer interface {
	// HTTPKey generates a key for raw HTTP response caching.
	HTTPKey(namespace, key string) string

	// DescribeKey generates a key for a Salesforce object describe.
	DescribeKey(instanceURL, object string, opts DescribeKeyOpts) string

	// LayoutKey generates a key for a computed diagram layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation. Keys are
// prefix:sha256(parts) so backends never see user-controlled strings.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return hashKey("http:"+namespace, key)
}

// DescribeKey generates a key for a Salesforce object describe.
func (k *DefaultKeyer) DescribeKey(instanceURL, object string, opts DescribeKeyOpts) string {
	return hashKey("describe", instanceURL, object, opts)
}

// LayoutKey generates a key for a computed diagram layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey builds a prefix:sha256(parts) key. The prefix names the data
// class for debugging; the full 256-bit digest covers instance URL,
// object name, and option structs so distinct inputs cannot collide.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data. The pipeline uses it to derive
// graph and layout hashes, and FileCache uses it to shard entry paths.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
