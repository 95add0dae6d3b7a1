package cache

// ScopedKeyer prefixes every key of an inner Keyer. The serve command scopes
// keys per server instance so several dashboards can share one Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "classviz:room-12:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) OrderKey(datasetHash string, opts OrderKeyOpts) string {
	return k.prefix + k.inner.OrderKey(datasetHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
