// Package storage provides a Pebble-backed audit archive of accepted order
// ciphertexts. The archive only ever sees sealed blobs: at-rest
// confidentiality does not depend on it.
package storage

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
)

// Archive appends accepted ciphertexts under a per-client sequence.
//
// Key schema:
//
//	ord:<clientID>:<seq> → ciphertext blob
//
// Sequence numbers are zero-padded (20 digits) for lexicographic ordering.
type Archive struct {
	db *pebble.DB

	mu  sync.Mutex
	seq map[int]uint64 // next sequence per client
}

// OpenArchive opens a Pebble database at the given path
func OpenArchive(path string) (*Archive, error) {
	opts := &pebble.Options{
		Cache:        pebble.NewCache(32 << 20), // 32MB cache
		MemTableSize: 16 << 20,                  // 16MB memtable
		MaxOpenFiles: 500,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db at %s: %w", path, err)
	}

	return &Archive{db: db, seq: make(map[int]uint64)}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}

// Append stores a ciphertext under the client's next sequence number.
// Writes are NoSync: the archive is an audit trail, not the source of truth.
func (a *Archive) Append(clientID int, ciphertext []byte) error {
	a.mu.Lock()
	seq, ok := a.seq[clientID]
	if !ok {
		last, err := a.lastSeq(clientID)
		if err != nil {
			a.mu.Unlock()
			return err
		}
		seq = last
	}
	a.seq[clientID] = seq + 1
	a.mu.Unlock()

	if err := a.db.Set(archiveKey(clientID, seq), ciphertext, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to append ciphertext: %w", err)
	}
	return nil
}

// lastSeq finds the next free sequence for a client by seeking the highest
// existing key under its prefix. Assumes a.mu is held.
func (a *Archive) lastSeq(clientID int) (uint64, error) {
	prefix := archivePrefix(clientID)
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to open archive iterator: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, nil
	}

	key := string(iter.Key())
	seq, err := strconv.ParseUint(key[strings.LastIndexByte(key, ':')+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed archive key %q: %w", key, err)
	}
	return seq + 1, nil
}

// Recent loads up to limit ciphertexts for a client, newest first
func (a *Archive) Recent(clientID int, limit int) ([][]byte, error) {
	prefix := archivePrefix(clientID)
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive iterator: %w", err)
	}
	defer iter.Close()

	var blobs [][]byte
	for iter.Last(); iter.Valid() && len(blobs) < limit; iter.Prev() {
		blobs = append(blobs, append([]byte(nil), iter.Value()...))
	}
	return blobs, nil
}

// archiveKey returns the key for one archived ciphertext
// Format: "ord:{clientID}:{seq}"
func archiveKey(clientID int, seq uint64) []byte {
	return []byte(fmt.Sprintf("ord:%d:%020d", clientID, seq))
}

// archivePrefix returns the prefix for all of a client's ciphertexts
func archivePrefix(clientID int) []byte {
	return []byte(fmt.Sprintf("ord:%d:", clientID))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
