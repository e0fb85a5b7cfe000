package crypto

import (
	"bytes"
	"testing"
)

// Tests use 2048-bit keys: 4096-bit generation is too slow for the test loop.

func TestGenerateKey(t *testing.T) {
	signer, err := GenerateKey(MinKeyBits)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	if len(signer.PublicKeyDER()) == 0 {
		t.Error("empty public key encoding")
	}

	privDER, err := signer.PrivateKeyDER()
	if err != nil {
		t.Fatalf("failed to encode private key: %v", err)
	}
	if len(privDER) == 0 {
		t.Error("empty private key encoding")
	}
}

func TestGenerateKeyRejectsWeakModulus(t *testing.T) {
	if _, err := GenerateKey(1024); err == nil {
		t.Error("expected error for modulus below 2048 bits")
	}
}

func TestFromPrivateKeyDER(t *testing.T) {
	signer1, _ := GenerateKey(MinKeyBits)
	privDER, err := signer1.PrivateKeyDER()
	if err != nil {
		t.Fatalf("failed to encode private key: %v", err)
	}

	signer2, err := FromPrivateKeyDER(privDER)
	if err != nil {
		t.Fatalf("failed to load key: %v", err)
	}

	if !bytes.Equal(signer2.PublicKeyDER(), signer1.PublicKeyDER()) {
		t.Error("public key mismatch after reload")
	}
}

func TestFromPrivateKeyDERMalformed(t *testing.T) {
	if _, err := FromPrivateKeyDER([]byte("not a key")); err == nil {
		t.Error("expected error for malformed private key")
	}

	if _, err := SignWithKey([]byte("payload"), []byte{0x01, 0x02}); err == nil {
		t.Error("expected error signing with malformed key")
	}
}

func TestSignAndVerify(t *testing.T) {
	signer, _ := GenerateKey(MinKeyBits)

	payload := []byte(`{"messageType":"BuyStock","stockId":"ABC","amount":"012"}`)
	signature, err := signer.Sign(payload)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if !VerifySignature(signer.PublicKeyDER(), payload, signature) {
		t.Error("signature verification failed")
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	signer, _ := GenerateKey(MinKeyBits)
	payload := []byte("order payload")
	signature, _ := signer.Sign(payload)

	// Flipped payload bit
	tampered := append([]byte(nil), payload...)
	tampered[0] ^= 0x01
	if VerifySignature(signer.PublicKeyDER(), tampered, signature) {
		t.Error("tampered payload should not verify")
	}

	// Flipped signature bit
	badSig := append([]byte(nil), signature...)
	badSig[0] ^= 0x01
	if VerifySignature(signer.PublicKeyDER(), payload, badSig) {
		t.Error("corrupted signature should not verify")
	}

	// Unrelated public key
	other, _ := GenerateKey(MinKeyBits)
	if VerifySignature(other.PublicKeyDER(), payload, signature) {
		t.Error("signature should not verify under unrelated key")
	}
}

func TestVerifyMalformedInputs(t *testing.T) {
	signer, _ := GenerateKey(MinKeyBits)
	payload := []byte("payload")
	signature, _ := signer.Sign(payload)

	if VerifySignature([]byte("garbage key"), payload, signature) {
		t.Error("malformed public key should not verify")
	}

	if VerifySignature(signer.PublicKeyDER(), payload, []byte{1, 2, 3}) {
		t.Error("truncated signature should not verify")
	}
}

func TestGenerateMasterKey(t *testing.T) {
	key1, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("failed to generate master key: %v", err)
	}
	if len(key1) != MasterKeySize {
		t.Errorf("master key length = %d, want %d", len(key1), MasterKeySize)
	}

	key2, _ := GenerateMasterKey()
	if bytes.Equal(key1, key2) {
		t.Error("generated identical master keys (unlikely but possible - retry test)")
	}
}
