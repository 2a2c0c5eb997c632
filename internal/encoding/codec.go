// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package encoding provides the bijective byte-slice/printable-text
// boundary codec used by the metadata store (spec §4.2): standard base64
// with padding, fixed-length fields decoded with a length assertion so a
// corrupted or truncated row fails as "corrupt record" rather than
// silently producing a short key or nonce.
package encoding

import (
	"encoding/base64"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// Encode returns the base64 standard-encoding text form of b.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses [Encode]. A malformed base64 string is a corrupt record.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode: %w: %w", vaulterr.ErrCorrupt, err)
	}
	return b, nil
}

// DecodeFixed reverses [Encode] and asserts the decoded length equals want.
// Used for nonces, hashes, and salts, whose lengths are protocol constants.
func DecodeFixed(s string, want int) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != want {
		return nil, fmt.Errorf("decode: %w: length %d, want %d", vaulterr.ErrCorrupt, len(b), want)
	}
	return b, nil
}
