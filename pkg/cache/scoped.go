package cache

// ScopedKeyer prefixes every key of an inner Keyer, letting several
// projects share one backend without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer falls back to the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) QueryKey(typeTag, query string) string {
	return k.prefix + k.inner.QueryKey(typeTag, query)
}
