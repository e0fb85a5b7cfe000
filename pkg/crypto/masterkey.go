package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// MasterKeySize is 32 bytes (256-bit), the ChaCha20-Poly1305 key size.
const MasterKeySize = chacha20poly1305.KeySize

// GenerateMasterKey creates the process-wide symmetric key protecting stored
// orders. Generated once at startup; never rotated, never persisted.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, MasterKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return key, nil
}
