package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Different Salesforce orgs sharing one cache backend get separate
// namespaces.
//
// Example usage:
//
//	// Org-specific keys for authenticated describe data
//	orgKeyer := NewScopedKeyer(NewDefaultKeyer(), "org:00D000000000001:")
//
//	// Global keys for anonymous artifacts
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// DescribeKey generates a prefixed key for describe caching.
func (k *ScopedKeyer) DescribeKey(instanceURL, object string, opts DescribeKeyOpts) string {
	return k.prefix + k.inner.DescribeKey(instanceURL, object, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
