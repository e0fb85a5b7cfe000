package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"fmt"
)

// MinKeyBits is the smallest accepted RSA modulus. DefaultKeyBits matches
// the 4096-bit keys the reference clients generate.
const (
	MinKeyBits     = 2048
	DefaultKeyBits = 4096
)

// Signer manages an RSA key pair for signing orders.
// Signatures are RSASSA-PKCS1-v1_5 over a SHA-512 digest of the payload.
type Signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	publicDER  []byte // PKIX encoding, registered with the server
}

// GenerateKey creates a new random RSA key pair of the given modulus size
func GenerateKey(bits int) (*Signer, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("key size %d below minimum %d bits", bits, MinKeyBits)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	return &Signer{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		publicDER:  publicDER,
	}, nil
}

// FromPrivateKeyDER creates a Signer from a PKCS#8 encoded private key
func FromPrivateKeyDER(der []byte) (*Signer, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	return &Signer{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		publicDER:  publicDER,
	}, nil
}

// PublicKeyDER returns the PKIX encoding of the public key.
// This is the exact byte string the registry dedups on.
func (s *Signer) PublicKeyDER() []byte {
	return s.publicDER
}

// PrivateKeyDER returns the PKCS#8 encoding of the private key
// WARNING: Keep this secret! Never expose to users or logs
func (s *Signer) PrivateKeyDER() ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode private key: %w", err)
	}
	return der, nil
}

// Sign signs the exact payload bytes and returns the signature
func (s *Signer) Sign(payload []byte) ([]byte, error) {
	digest := sha512.Sum512(payload)

	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA512, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	return signature, nil
}

// SignWithKey signs payload with a PKCS#8 encoded private key.
// Returns an error if the key material is malformed.
func SignWithKey(payload, privateKeyDER []byte) ([]byte, error) {
	signer, err := FromPrivateKeyDER(privateKeyDER)
	if err != nil {
		return nil, err
	}
	return signer.Sign(payload)
}

// VerifySignature reports whether signature validates against payload under
// the PKIX-encoded public key. Malformed keys, malformed signatures, and
// tampered payloads all return false; verification never returns an error.
func VerifySignature(publicKeyDER, payload, signature []byte) bool {
	parsed, err := x509.ParsePKIXPublicKey(publicKeyDER)
	if err != nil {
		return false
	}

	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return false
	}

	digest := sha512.Sum512(payload)
	return rsa.VerifyPKCS1v15(publicKey, crypto.SHA512, digest[:], signature) == nil
}
