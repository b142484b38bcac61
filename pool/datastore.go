// File: pool/datastore.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-capacity object datastore with per-core pool views. The datastore
// owns a preallocated arena created once at startup; pools refill from it
// in chunks so the common alloc/free path never takes the shared lock.
// Each pool is touched only by its owning core's thread, so the pool-local
// cache needs no synchronization. Records may migrate between pools: a
// record allocated on the producing core is freed into the draining core's
// pool, exactly like chunked mempools over a shared backing store.

package pool

import (
	"sync"

	"github.com/momentics/corebind/api"
)

// chunkSize is the number of objects moved per datastore refill or spill.
const chunkSize = 64

// Datastore is the shared bounded backing store for one object type.
type Datastore[T any] struct {
	mu    sync.Mutex
	arena []T
	free  []*T
}

// NewDatastore preallocates capacity objects. Capacity is fixed for the
// datastore's lifetime; exhausting it makes pool allocation fail until
// records are freed.
func NewDatastore[T any](capacity int) (*Datastore[T], error) {
	if capacity <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool: datastore capacity must be positive")
	}
	ds := &Datastore[T]{
		arena: make([]T, capacity),
		free:  make([]*T, 0, capacity),
	}
	for i := range ds.arena {
		ds.free = append(ds.free, &ds.arena[i])
	}
	return ds, nil
}

// Capacity returns the total number of objects the datastore owns.
func (ds *Datastore[T]) Capacity() int { return len(ds.arena) }

// take pops up to n free objects from the shared free list.
func (ds *Datastore[T]) take(n int) []*T {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if n > len(ds.free) {
		n = len(ds.free)
	}
	if n == 0 {
		return nil
	}
	cut := len(ds.free) - n
	out := make([]*T, n)
	copy(out, ds.free[cut:])
	ds.free = ds.free[:cut]
	return out
}

// give returns objects to the shared free list.
func (ds *Datastore[T]) give(batch []*T) {
	ds.mu.Lock()
	ds.free = append(ds.free, batch...)
	ds.mu.Unlock()
}

// Pool is a per-core view over a shared Datastore. Not safe for use by
// more than one thread; every core creates its own.
type Pool[T any] struct {
	ds    *Datastore[T]
	cache []*T
}

// NewPool creates a per-core pool view backed by ds.
func NewPool[T any](ds *Datastore[T]) *Pool[T] {
	return &Pool[T]{ds: ds, cache: make([]*T, 0, 2*chunkSize)}
}

// Alloc returns an object or nil when the backing store is exhausted.
// The object's fields carry whatever the previous user left; callers
// reinitialize every field.
func (p *Pool[T]) Alloc() *T {
	if len(p.cache) == 0 {
		p.cache = append(p.cache, p.ds.take(chunkSize)...)
		if len(p.cache) == 0 {
			return nil
		}
	}
	obj := p.cache[len(p.cache)-1]
	p.cache = p.cache[:len(p.cache)-1]
	return obj
}

// Free returns an object to this pool. Overfull caches spill a chunk back
// to the shared datastore so records migrating across cores recirculate.
func (p *Pool[T]) Free(obj *T) {
	p.cache = append(p.cache, obj)
	if len(p.cache) >= 2*chunkSize {
		cut := len(p.cache) - chunkSize
		p.ds.give(p.cache[cut:])
		p.cache = p.cache[:cut]
	}
}
