// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the Vault's metadata persistence layer: a
// SQLite-backed relational store with three tables (accounts, credentials,
// files_data), foreign-key cascading delete, and transaction-scoped write
// operations. All binary fields are base64-encoded before they reach a SQL
// statement (see internal/encoding) and decoded on the way back out.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vaultkeeper/vaultkeeper/internal/logger"
	"github.com/vaultkeeper/vaultkeeper/internal/store/migrations"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// DB wraps a SQLite connection. Unlike the original PostgreSQL-oriented
// wrapper it is grounded on, DB carries no error classifier field: sqlite3
// driver errors are classified inline by [classifyConstraintError], since
// there is no pgconn-style error-code table to dispatch on.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Open connects to the SQLite database file at dsn. Unlike the teacher's
// NewConnectSQLite, it does not create the file if missing: spec §4.4
// requires the database file's existence to be a precondition set up
// externally, not auto-created by the store.
//
// On success, foreign-key enforcement is turned on for the connection
// (spec §4.4/§6) and the schema is migrated to the latest version.
func Open(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	if _, err := os.Stat(dsn); err != nil {
		log.Err(err).Str("func", "store.Open").Str("dsn", dsn).Msg("database file does not exist")
		return nil, fmt.Errorf("%w: database file %q does not exist", vaulterr.ErrPrecondition, dsn)
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "store.Open").Msg("error opening connection to database")
		return nil, fmt.Errorf("%w: opening database: %w", vaulterr.ErrIO, err)
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		conn.Close()
		log.Err(err).Str("func", "store.Open").Msg("error enabling foreign key enforcement")
		return nil, fmt.Errorf("%w: enabling foreign keys: %w", vaulterr.ErrIO, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		log.Err(err).Str("func", "store.Open").Msg("error pinging database")
		return nil, fmt.Errorf("%w: pinging database: %w", vaulterr.ErrIO, err)
	}

	db := &DB{DB: conn, logger: log}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Debug().Str("func", "store.Open").Str("dsn", dsn).Msg("connected to database successfully")
	return db, nil
}

// migrate runs the embedded schema migrations. Executed once at Open,
// idempotently (every statement is CREATE TABLE IF NOT EXISTS).
func (db *DB) migrate() error {
	if err := migrations.Migrate(db.DB); err != nil {
		db.logger.Err(err).Str("func", "store.DB.migrate").Msg("schema migration failed")
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return nil
}
