// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Seal AEAD-encrypts plaintext under key (must be 32 bytes) with a freshly
// generated nonce. Returns the ciphertext (including the GCM authentication
// tag) and the nonce used, so the caller can persist both.
func Seal(key, plaintext []byte) (cipherbytes, nonce []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce, err = GenerateNonce()
	if err != nil {
		return nil, nil, err
	}

	cipherbytes = gcm.Seal(nil, nonce, plaintext, nil)
	return cipherbytes, nonce, nil
}

// Open AEAD-decrypts cipherbytes under key and nonce. A non-nil error means
// either the key is wrong or the ciphertext has been tampered with; the two
// cases are indistinguishable by design.
func Open(key, cipherbytes, nonce []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("open: nonce must be %d bytes, got %d", gcm.NonceSize(), len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, cipherbytes, nil)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
