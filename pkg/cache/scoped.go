package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, for
// example one namespace per factory sharing a Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "factory:dhaka-2:")
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

// OperationsKey generates a prefixed key for normalized operations.
func (k *ScopedKeyer) OperationsKey(gridHash string) string {
	return k.prefix + k.inner.OperationsKey(gridHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(opsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(opsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
