// Package keylock provides per-key mutual exclusion. The session manager and
// the advice orchestrator serialize all work touching one user's daily
// session and quota state behind that user's key; different users never
// contend.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex is a set of mutexes indexed by int64 key. Entries are created on
// first use and removed once the last holder releases them, so an idle map
// stays empty.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[int64]*entry)}
}

// Lock blocks until the mutex for key is held.
func (k *KeyedMutex) Lock(key int64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. It must only be called by the current
// holder.
func (k *KeyedMutex) Unlock(key int64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("keylock: unlock of unheld key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
