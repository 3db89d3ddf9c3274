package rhmap

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dolthub/maphash"
)

// Context is the hash/equality capability a Map is built with. The
// Map never picks a hash function for K itself; it is handed one.
//
// Hash must be deterministic and well distributed across the 64-bit
// range; it need not be cryptographically strong. Equal must be a
// proper equivalence relation consistent with Hash (equal keys must
// hash equal).
type Context[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

// ComparableContext is a Context for any comparable key type, hashing
// with a randomly seeded maphash.Hasher and comparing with the
// language's built-in ==.
type ComparableContext[K comparable] struct {
	hasher maphash.Hasher[K]
}

// NewComparableContext builds a ComparableContext with a fresh random
// seed. Two ComparableContexts are seeded independently, so their Hash
// values for the same key differ with overwhelming probability: hash
// values are not meant to be persisted or compared across contexts.
func NewComparableContext[K comparable]() *ComparableContext[K] {
	return &ComparableContext[K]{hasher: maphash.NewHasher[K]()}
}

func (c *ComparableContext[K]) Hash(key K) uint64 {
	return c.hasher.Hash(key)
}

func (c *ComparableContext[K]) Equal(a, b K) bool {
	return a == b
}

// StringContext is a Context[string] hashing with xxhash.
type StringContext struct{}

func (StringContext) Hash(key string) uint64 {
	return xxhash.Sum64String(key)
}

func (StringContext) Equal(a, b string) bool {
	return a == b
}

// BytesContext is a Context[[]byte] hashing with xxhash. Equal does a
// byte-wise comparison since []byte is not comparable with ==.
type BytesContext struct{}

func (BytesContext) Hash(key []byte) uint64 {
	return xxhash.Sum64(key)
}

func (BytesContext) Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
