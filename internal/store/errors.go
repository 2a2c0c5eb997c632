// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"strings"

	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// Sentinel errors returned by repository methods, each wrapping the
// matching [vaulterr] kind so callers can classify failures with
// [errors.Is] at either granularity.
var (
	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = fmt.Errorf("failed to begin transaction: %w", vaulterr.ErrIO)

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommittingTransaction = fmt.Errorf("failed to commit transaction: %w", vaulterr.ErrIO)

	// ErrExecutingQuery is returned when a query or statement fails for
	// reasons other than a constraint violation.
	ErrExecutingQuery = fmt.Errorf("failed to execute query: %w", vaulterr.ErrIO)

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = fmt.Errorf("failed to scan row: %w", vaulterr.ErrIO)

	// ErrRowNotAffectedOnce is returned when an update or delete expected
	// to affect exactly one row affected zero or more than one.
	ErrRowNotAffectedOnce = fmt.Errorf("update or delete did not affect exactly one row: %w", vaulterr.ErrProtocol)
)

// classifyConstraintError maps a raw sqlite3 driver error into
// [vaulterr.ErrAlreadyExists] for uniqueness/PK violations, into
// [vaulterr.ErrPrecondition] for foreign-key violations (the owning
// account row is missing), or into [vaulterr.ErrIO] otherwise.
func classifyConstraintError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "PRIMARY KEY constraint failed"):
		return fmt.Errorf("%w: %w", vaulterr.ErrAlreadyExists, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w", vaulterr.ErrPrecondition, err)
	default:
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
}
