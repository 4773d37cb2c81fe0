package nbt

import "github.com/puzpuzpuz/xsync/v4"

// DefaultInternLimit caps the number of distinct strings the shared pool
// retains. Decoding untrusted data must not grow the pool without bound.
const DefaultInternLimit = 1 << 16

var sharedInternPool = NewInternPool(DefaultInternLimit)

// InternPool deduplicates decoded strings so that repeated compound keys and
// values share one backing allocation. It is safe for concurrent use by any
// number of decoders. Once the limit is reached new strings are returned as
// is and not retained.
type InternPool struct {
	strings *xsync.Map[string, string]
	limit   int
}

// NewInternPool creates a pool retaining at most limit strings; limit <= 0
// means DefaultInternLimit.
func NewInternPool(limit int) *InternPool {
	if limit <= 0 {
		limit = DefaultInternLimit
	}
	return &InternPool{strings: xsync.NewMap[string, string](), limit: limit}
}

// Intern returns the pooled copy of s.
func (p *InternPool) Intern(s string) string {
	if v, ok := p.strings.Load(s); ok {
		return v
	}
	if p.strings.Size() >= p.limit {
		return s
	}
	v, _ := p.strings.LoadOrStore(s, s)
	return v
}

// Len returns the number of retained strings.
func (p *InternPool) Len() int { return p.strings.Size() }
