package crypto

import (
	"bytes"
	"testing"
)

func TestGenerateKey_LengthAndRandomness(t *testing.T) {
	k1, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}
	k2, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}

	if len(k1) != KeySize {
		t.Fatalf("key length = %d, want %d", len(k1), KeySize)
	}
	if bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to differ, but they are equal")
	}
}

func TestGenerateNonce_Length(t *testing.T) {
	n, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce error: %v", err)
	}
	if len(n) != NonceSize {
		t.Fatalf("nonce length = %d, want %d", len(n), NonceSize)
	}
}

func TestGenerateSalt_Length(t *testing.T) {
	s, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	if len(s) != SaltSize {
		t.Fatalf("salt length = %d, want %d", len(s), SaltSize)
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	salt := bytes.Repeat([]byte{0xAB}, SaltSize)

	h1 := DeriveSessionKey([]byte("correct horse battery staple"), salt)
	h2 := DeriveSessionKey([]byte("correct horse battery staple"), salt)

	if len(h1) != KeySize {
		t.Fatalf("derived key length = %d, want %d", len(h1), KeySize)
	}
	if !bytes.Equal(h1, h2) {
		t.Fatalf("expected derived keys to match for same input+salt")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentOutput(t *testing.T) {
	password := []byte("same password")
	salt1 := bytes.Repeat([]byte{0x01}, SaltSize)
	salt2 := bytes.Repeat([]byte{0x02}, SaltSize)

	h1 := DeriveSessionKey(password, salt1)
	h2 := DeriveSessionKey(password, salt2)

	if bytes.Equal(h1, h2) {
		t.Fatalf("expected different salts to produce different derived keys")
	}
}

func TestDeriveKey_DifferentInputProducesDifferentOutput(t *testing.T) {
	salt := bytes.Repeat([]byte{0x03}, SaltSize)

	h1 := DeriveSessionKey([]byte("password one"), salt)
	h2 := DeriveSessionKey([]byte("password two"), salt)

	if bytes.Equal(h1, h2) {
		t.Fatalf("expected different inputs to produce different derived keys")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey error: %v", err)
	}
	plaintext := []byte("this is a test.")

	cipherbytes, nonce, err := Seal(key, plaintext)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	if len(nonce) != NonceSize {
		t.Fatalf("nonce length = %d, want %d", len(nonce), NonceSize)
	}

	got, err := Open(key, cipherbytes, nonce)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("Open() = %q, want %q", got, plaintext)
	}
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key1, _ := GenerateKey()
	key2, _ := GenerateKey()
	plaintext := []byte("super secret")

	cipherbytes, nonce, err := Seal(key1, plaintext)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if _, err := Open(key2, cipherbytes, nonce); err == nil {
		t.Fatalf("expected Open with wrong key to fail")
	}
}

func TestOpen_TamperedCiphertextFails(t *testing.T) {
	key, _ := GenerateKey()
	plaintext := []byte("super secret")

	cipherbytes, nonce, err := Seal(key, plaintext)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	tampered := bytes.Clone(cipherbytes)
	tampered[0] ^= 0xFF

	if _, err := Open(key, tampered, nonce); err == nil {
		t.Fatalf("expected Open with tampered ciphertext to fail")
	}
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key, _ := GenerateKey()
	plaintext := []byte("same plaintext")

	_, n1, err := Seal(key, plaintext)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}
	_, n2, err := Seal(key, plaintext)
	if err != nil {
		t.Fatalf("Seal error: %v", err)
	}

	if bytes.Equal(n1, n2) {
		t.Fatalf("expected fresh nonces across calls, got equal nonces")
	}
}
