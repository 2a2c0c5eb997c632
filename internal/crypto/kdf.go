// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// KDFIterations is the PBKDF2-HMAC-SHA256 iteration count. It is a protocol
// constant baked into the on-disk format: raising it would make existing
// accounts unable to unlock with their stored hash/salt pairs. 50,000 is
// lower than current recommendations, but the format preserves it rather
// than silently migrating it.
const KDFIterations = 50_000

// DeriveKey runs PBKDF2-HMAC-SHA256 over input with salt, producing keyLen
// bytes. Deterministic: the same (input, salt, keyLen) always yields the
// same output.
func DeriveKey(input, salt []byte, keyLen int) []byte {
	return pbkdf2.Key(input, salt, KDFIterations, keyLen, sha256.New)
}

// DeriveSessionKey is DeriveKey fixed to the 32-byte session-key output
// length used for key-wrapping keys and double-hashes.
func DeriveSessionKey(input, salt []byte) []byte {
	return DeriveKey(input, salt, KeySize)
}
