// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations manages the metadata store's schema migrations. It
// uses the goose migration library with embedded SQL files, ensuring the
// schema is always available regardless of the working directory or
// deployment environment.
package migrations

import (
	"database/sql"
	"fmt"

	"embed"

	"github.com/pressly/goose/v3"
)

// embedMigrations holds all *.sql migration files embedded into the binary
// at compile time via the go:embed directive.
//
//go:embed *.sql
var embedMigrations embed.FS

// Migrate applies all pending schema migrations to db using the goose
// library against the embedded filesystem. Unlike the teacher's
// dual-dialect resolver, the Vault only ever speaks to SQLite (spec §4.4),
// so the dialect is fixed rather than sniffed from the driver type.
//
// Intended to be called once at startup, before the database is used by
// any other component. Schema creation is idempotent: every statement is
// `CREATE TABLE IF NOT EXISTS`, so running Migrate against an
// already-migrated database is a no-op.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
