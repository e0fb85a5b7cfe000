// Package vault keeps accepted orders confidential at rest: plaintexts are
// sealed under the process master key and held in a bounded per-client
// history, retrievable only through decryption on demand.
package vault

import (
	"sync"
)

// Vault owns the per-client order histories and the master-key cipher.
// The cipher is constructed once and shared read-only by all operations.
type Vault struct {
	cipher *Cipher

	mu        sync.RWMutex
	histories map[int]*history
}

// New creates a Vault sealing orders under the given 32-byte master key
func New(masterKey []byte) (*Vault, error) {
	cipher, err := NewCipher(masterKey)
	if err != nil {
		return nil, err
	}
	return &Vault{
		cipher:    cipher,
		histories: make(map[int]*history),
	}, nil
}

// Ensure creates the history for clientID if it does not exist yet.
// Called at registration; re-registering must not reset an existing history.
func (v *Vault) Ensure(clientID int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.histories[clientID]; !ok {
		v.histories[clientID] = newHistory()
	}
}

func (v *Vault) getOrCreate(clientID int) *history {
	v.mu.RLock()
	h, ok := v.histories[clientID]
	v.mu.RUnlock()
	if ok {
		return h
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if h, ok := v.histories[clientID]; ok {
		return h
	}
	h = newHistory()
	v.histories[clientID] = h
	return h
}

// EncryptAndStore seals orderPlaintext and appends the ciphertext to the
// client's history, evicting the oldest entry at capacity. A full history is
// not an error; only an encryption failure is. Returns the stored ciphertext.
func (v *Vault) EncryptAndStore(clientID int, orderPlaintext []byte) ([]byte, error) {
	ciphertext, err := v.cipher.Seal(orderPlaintext)
	if err != nil {
		return nil, err
	}

	v.getOrCreate(clientID).append(ciphertext)
	return ciphertext, nil
}

// ListDecrypted returns a lazy iterator over the client's stored orders in
// arrival order, oldest first. Entries are decrypted one at a time as the
// iterator advances; the iterator is finite and cannot be restarted.
func (v *Vault) ListDecrypted(clientID int) *Iter {
	v.mu.RLock()
	h, ok := v.histories[clientID]
	v.mu.RUnlock()

	if !ok {
		return &Iter{cipher: v.cipher}
	}
	return &Iter{cipher: v.cipher, blobs: h.snapshot()}
}

// Size returns the number of ciphertexts stored for clientID
func (v *Vault) Size(clientID int) int {
	v.mu.RLock()
	h, ok := v.histories[clientID]
	v.mu.RUnlock()

	if !ok {
		return 0
	}
	return h.size()
}

// Iter walks a client's order history, decrypting entries on demand.
// Usage follows the storage-iterator convention:
//
//	for it.Next() {
//	    order := it.Order()
//	}
//	if it.Err() != nil { ... }
type Iter struct {
	cipher *Cipher
	blobs  [][]byte
	idx    int
	order  []byte
	err    error
}

// Next advances to the next stored order, decrypting it.
// Returns false when the history is exhausted or a decryption fails.
func (it *Iter) Next() bool {
	if it.err != nil || it.idx >= len(it.blobs) {
		return false
	}

	pt, err := it.cipher.Open(it.blobs[it.idx])
	it.idx++
	if err != nil {
		it.err = err
		return false
	}
	it.order = pt
	return true
}

// Order returns the plaintext of the entry Next advanced to
func (it *Iter) Order() []byte {
	return it.order
}

// Err returns the decryption error that stopped iteration, if any
func (it *Iter) Err() error {
	return it.err
}
