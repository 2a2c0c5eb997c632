// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vaulterr defines the error taxonomy shared by every layer of the
// Vault (crypto, store, blobstore, vault). Every public Vault operation
// returns an error that wraps one of the sentinels below; callers
// distinguish kinds with [errors.Is] or [Classify].
package vaulterr

import "errors"

// Sentinel errors, one per taxonomy kind. Layer-specific errors wrap one of
// these via fmt.Errorf("...: %w", ...) so that errors.Is still matches.
var (
	// ErrAuthentication is returned when a password fails to unlock an
	// account, whether the mismatch was detected at the double-hash
	// comparison or at DEK unsealing. The message is identical in both
	// cases (spec invariant: login indistinguishability).
	ErrAuthentication = errors.New("incorrect password")

	// ErrNotFound is returned when a requested account, credential, or file
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned on duplicate account, duplicate
	// credential plaintext name, or an existing file path.
	ErrAlreadyExists = errors.New("already exists")

	// ErrCorrupt is returned on AEAD tag mismatch, wrong-length encoded
	// field, or non-UTF-8 where UTF-8 is required.
	ErrCorrupt = errors.New("corrupt record")

	// ErrIO is returned when a filesystem or database operation fails for
	// reasons unrelated to the above.
	ErrIO = errors.New("i/o error")

	// ErrProtocol is returned when an update or delete that should have
	// affected exactly one row affected zero or many; the Vault aborts the
	// enclosing transaction.
	ErrProtocol = errors.New("protocol violation")

	// ErrPrecondition is returned when the data directory is missing or
	// read-only, or the database file does not exist.
	ErrPrecondition = errors.New("precondition not met")
)

// Kind identifies one of the seven error categories from the taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindNotFound
	KindAlreadyExists
	KindCorrupt
	KindIO
	KindProtocol
	KindPrecondition
)

// Classify maps err to its [Kind] by walking the error chain with
// [errors.Is] against the package sentinels. Unrecognized errors classify
// as KindUnknown rather than panicking.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrCorrupt):
		return KindCorrupt
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrProtocol):
		return KindProtocol
	case errors.Is(err, ErrPrecondition):
		return KindPrecondition
	default:
		return KindUnknown
	}
}
