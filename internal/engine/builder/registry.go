package builder

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const signatureShards = 16

// registry is a concurrent first-writer-wins map split into independently locked shards.
type registry[K comparable, V any] struct {
	shards []registryShard[K, V]
	hash   func(K) uint64
}

type registryShard[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]V
}

func newRegistry[K comparable, V any](shards int, hash func(K) uint64) *registry[K, V] {
	if shards < 1 {
		shards = 1
	}
	r := &registry[K, V]{
		shards: make([]registryShard[K, V], shards),
		hash:   hash,
	}
	for i := range r.shards {
		r.shards[i].m = make(map[K]V)
	}
	return r
}

// newSignatureRegistry maps signatures to the first task that produced them.
func newSignatureRegistry[V any]() *registry[string, V] {
	return newRegistry[string, V](signatureShards, xxhash.Sum64String)
}

// newIdentityRegistry is a single-shard registry for keys that have no stable hash.
func newIdentityRegistry[K comparable, V any]() *registry[K, V] {
	return newRegistry[K, V](1, func(K) uint64 { return 0 })
}

func (r *registry[K, V]) shard(key K) *registryShard[K, V] {
	return &r.shards[r.hash(key)%uint64(len(r.shards))]
}

// LoadOrStore returns the existing value for key if present. Otherwise it stores
// value and returns it. The loaded result is true if the value was already present.
func (r *registry[K, V]) LoadOrStore(key K, value V) (V, bool) {
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.m[key]; ok {
		return existing, true
	}
	s.m[key] = value
	return value, false
}

// Load returns the value stored for key.
func (r *registry[K, V]) Load(key K) (V, bool) {
	s := r.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.m[key]
	return v, ok
}
