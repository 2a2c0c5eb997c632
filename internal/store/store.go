// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/logger"
)

// Store is the metadata store facade consumed by the Vault orchestrator.
// It exposes the three entity repositories bound to the plain connection,
// plus [Store.BeginTx] for the transaction-scoped variant spec §4.4
// operation 8 requires.
type Store struct {
	db     *DB
	logger *logger.Logger
}

// New wraps an already-open [DB] in a [Store].
func New(db *DB, log *logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// Accounts returns the account repository bound to the plain connection.
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{ex: s.db.DB, logger: s.logger}
}

// Credentials returns the credential repository bound to the plain connection.
func (s *Store) Credentials() *CredentialRepository {
	return &CredentialRepository{ex: s.db.DB, logger: s.logger}
}

// FilesData returns the file-metadata repository bound to the plain connection.
func (s *Store) FilesData() *FileDataRepository {
	return &FileDataRepository{ex: s.db.DB, logger: s.logger}
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is an open metadata-store transaction. It exposes the same three
// repositories as [Store], each bound to the transaction instead of the
// plain connection, so a caller composing several writes sees exactly one
// commit/rollback boundary — the two-store consistency protocol spec
// §4.6 depends on.
type Tx struct {
	tx     *sql.Tx
	logger *logger.Logger
}

// BeginTx opens a new [Tx]. Following the teacher's transaction idiom
// (repository_private_data.go's saveMultiplePrivateData/
// deleteMultipleRecords), callers should `defer tx.Rollback()` immediately
// after a successful BeginTx; rolling back a committed transaction is a
// no-op in database/sql, so the deferred call is always safe.
func (s *Store) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Err(err).Str("func", "Store.BeginTx").Msg("failed to begin transaction")
		return nil, ErrBeginningTransaction
	}
	return &Tx{tx: tx, logger: s.logger}, nil
}

// Accounts returns the account repository bound to this transaction.
func (t *Tx) Accounts() *AccountRepository {
	return &AccountRepository{ex: t.tx, logger: t.logger}
}

// Credentials returns the credential repository bound to this transaction.
func (t *Tx) Credentials() *CredentialRepository {
	return &CredentialRepository{ex: t.tx, logger: t.logger}
}

// FilesData returns the file-metadata repository bound to this transaction.
func (t *Tx) FilesData() *FileDataRepository {
	return &FileDataRepository{ex: t.tx, logger: t.logger}
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		t.logger.Err(err).Str("func", "Tx.Commit").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// Rollback aborts the transaction. Calling Rollback after a successful
// Commit is a no-op (returns sql.ErrTxDone, which callers may ignore).
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
