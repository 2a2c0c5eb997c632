// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/vaultkeeper/vaultkeeper/internal/logger"
)

// Fixed SQL statements, one per table per operation named in spec §4.4.
// Column order matches the struct-scan order in the matching repository.
const (
	selectAccount = `
		SELECT username, password_salt, dbl_hashed_password_hash, dbl_hashed_password_salt,
		       encrypted_key_cipherbytes, encrypted_key_nonce
		FROM accounts WHERE username = ?;`

	selectAllAccounts = `
		SELECT username, password_salt, dbl_hashed_password_hash, dbl_hashed_password_salt,
		       encrypted_key_cipherbytes, encrypted_key_nonce
		FROM accounts;`

	insertAccount = `
		INSERT INTO accounts (username, password_salt, dbl_hashed_password_hash, dbl_hashed_password_salt,
		                       encrypted_key_cipherbytes, encrypted_key_nonce)
		VALUES (?, ?, ?, ?, ?, ?);`

	deleteAccount = `DELETE FROM accounts WHERE username = ?;`

	selectCredential = `
		SELECT owner_username,
		       encrypted_name_cipherbytes, encrypted_name_nonce,
		       encrypted_username_cipherbytes, encrypted_username_nonce,
		       encrypted_password_cipherbytes, encrypted_password_nonce,
		       encrypted_notes_cipherbytes, encrypted_notes_nonce
		FROM credentials WHERE owner_username = ? AND encrypted_name_cipherbytes = ?;`

	selectOwnedCredentials = `
		SELECT owner_username,
		       encrypted_name_cipherbytes, encrypted_name_nonce,
		       encrypted_username_cipherbytes, encrypted_username_nonce,
		       encrypted_password_cipherbytes, encrypted_password_nonce,
		       encrypted_notes_cipherbytes, encrypted_notes_nonce
		FROM credentials WHERE owner_username = ?;`

	selectAllCredentials = `
		SELECT owner_username,
		       encrypted_name_cipherbytes, encrypted_name_nonce,
		       encrypted_username_cipherbytes, encrypted_username_nonce,
		       encrypted_password_cipherbytes, encrypted_password_nonce,
		       encrypted_notes_cipherbytes, encrypted_notes_nonce
		FROM credentials;`

	insertCredential = `
		INSERT INTO credentials (owner_username,
		                         encrypted_name_cipherbytes, encrypted_name_nonce,
		                         encrypted_username_cipherbytes, encrypted_username_nonce,
		                         encrypted_password_cipherbytes, encrypted_password_nonce,
		                         encrypted_notes_cipherbytes, encrypted_notes_nonce)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	deleteCredential = `DELETE FROM credentials WHERE owner_username = ? AND encrypted_name_cipherbytes = ?;`

	selectFileData = `
		SELECT path, filename, owner_username, contents_nonce
		FROM files_data WHERE path = ?;`

	selectOwnedFilesData = `
		SELECT path, filename, owner_username, contents_nonce
		FROM files_data WHERE owner_username = ?;`

	selectAllFilesData = `
		SELECT path, filename, owner_username, contents_nonce
		FROM files_data;`

	insertFileData = `
		INSERT INTO files_data (path, filename, owner_username, contents_nonce)
		VALUES (?, ?, ?, ?);`

	deleteFileData = `DELETE FROM files_data WHERE path = ?;`
)

// execer is satisfied by both *sql.DB and *sql.Tx. Repositories are built
// against this capability rather than a concrete connection type, so the
// same repository code serves both the top-level [Store] and a
// transaction-scoped [Tx] — spec §4.4 operation 8's "all write operations
// are available in a transaction-scoped variant" without duplicating each
// repository.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// updateOneColumn builds and executes `UPDATE table SET column = value
// WHERE <pk>`, then asserts that exactly one row was affected — spec §4.4
// operation 7. Used by every field-update method across all three
// repositories, so the "not exactly 1 row is a protocol violation" rule is
// enforced in one place.
func updateOneColumn(ctx context.Context, ex execer, table, column string, value any, pk sq.Eq) error {
	query, args, err := sq.Update(table).Set(column, value).Where(pk).ToSql()
	if err != nil {
		return fmt.Errorf("%w: building update query: %w", ErrExecutingQuery, err)
	}

	return execAssertingOneRow(ctx, ex, query, args)
}

// execAssertingOneRow runs query/args via ex.ExecContext and fails with
// [ErrRowNotAffectedOnce] unless exactly one row was affected. Shared by
// every update and delete path across all three entity repositories.
func execAssertingOneRow(ctx context.Context, ex execer, query string, args []any) error {
	log := logger.FromContext(ctx)

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("query", query).Msg("failed to execute statement")
		return classifyConstraintError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading rows affected: %w", ErrExecutingQuery, err)
	}
	if affected != 1 {
		log.Warn().Str("query", query).Int64("rows_affected", affected).Msg("expected exactly one row affected")
		return ErrRowNotAffectedOnce
	}

	return nil
}
