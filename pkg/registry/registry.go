// Package registry maps registered client public keys to stable integer ids.
package registry

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownClient is returned when a lookup references an id that was
// never assigned.
var ErrUnknownClient = errors.New("unknown client")

// ClientRecord binds a client id to its registered public key material.
// Immutable after registration; the id is the zero-based insertion index.
type ClientRecord struct {
	ID        int
	PublicKey []byte
}

// Registry is the append-only mapping from public key material to client id.
// Registration dedups by byte equality of the key: registering the same key
// twice yields the same id. Thread-safe.
type Registry struct {
	mu      sync.RWMutex
	records []ClientRecord
	byKey   map[[sha256.Size]byte]int // key fingerprint -> id, O(1) dedup
}

func New() *Registry {
	return &Registry{
		byKey: make(map[[sha256.Size]byte]int),
	}
}

// Register returns the id for publicKey, assigning the next free id if the
// key has not been seen before. The find-or-append is a single critical
// section: concurrent registrations of the same key get the same id.
func (r *Registry) Register(publicKey []byte) (int, error) {
	if len(publicKey) == 0 {
		return -1, fmt.Errorf("empty public key")
	}

	fp := sha256.Sum256(publicKey)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[fp]; ok && bytes.Equal(r.records[id].PublicKey, publicKey) {
		return id, nil
	}

	id := len(r.records)
	key := append([]byte(nil), publicKey...)
	r.records = append(r.records, ClientRecord{ID: id, PublicKey: key})
	r.byKey[fp] = id
	return id, nil
}

// Lookup returns the public key registered under id
func (r *Registry) Lookup(id int) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 0 || id >= len(r.records) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownClient, id)
	}
	return r.records[id].PublicKey, nil
}

// Count returns the number of registered clients
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
