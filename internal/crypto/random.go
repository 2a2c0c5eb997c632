// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto provides the Vault's cryptographic primitives: AEAD
// sealing, PBKDF2 key derivation, and CSPRNG generation of keys, nonces,
// and salts. Every function here is a pure, stateless building block; the
// key-wrap protocol itself lives in internal/vault.
package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Sizes fixed by the on-disk format. Changing any of these changes the
// format and must not be done silently.
const (
	KeySize  = 32 // data-encryption key, and PBKDF2 output length for keys
	NonceSize = 12 // AES-GCM nonce
	SaltSize = 64 // PBKDF2 salt
)

// RandomBytes reads n bytes from the OS CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// GenerateKey returns a fresh 32-byte data-encryption key.
func GenerateKey() ([]byte, error) {
	return RandomBytes(KeySize)
}

// GenerateNonce returns a fresh 12-byte AEAD nonce.
func GenerateNonce() ([]byte, error) {
	return RandomBytes(NonceSize)
}

// GenerateSalt returns a fresh 64-byte PBKDF2 salt.
func GenerateSalt() ([]byte, error) {
	return RandomBytes(SaltSize)
}
