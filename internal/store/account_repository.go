// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/vaultkeeper/vaultkeeper/internal/encoding"
	"github.com/vaultkeeper/vaultkeeper/internal/entity"
	"github.com/vaultkeeper/vaultkeeper/internal/logger"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// AccountRepository is the relational access layer for the accounts table.
// It is constructed bound to either the top-level [DB] connection or an
// open [Tx], so every method also exists in a transaction-scoped form by
// virtue of the shared [execer] capability.
type AccountRepository struct {
	ex     execer
	logger *logger.Logger
}

// Select implements spec §4.4 operation 1 for Account: returns (nil, nil)
// if no row matches username.
func (r *AccountRepository) Select(ctx context.Context, username string) (*entity.Account, error) {
	row := r.ex.QueryRowContext(ctx, selectAccount, username)
	acc, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// SelectOrFail implements spec §4.4 operation 2 for Account.
func (r *AccountRepository) SelectOrFail(ctx context.Context, username string) (*entity.Account, error) {
	acc, err := r.Select(ctx, username)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("account %q: %w", username, vaulterr.ErrNotFound)
	}
	return acc, nil
}

// SelectAll implements spec §4.4 operation 4 for Account.
func (r *AccountRepository) SelectAll(ctx context.Context) ([]entity.Account, error) {
	rows, err := r.ex.QueryContext(ctx, selectAllAccounts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var accounts []entity.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return accounts, nil
}

// Insert implements spec §4.4 operation 5 for Account. Fails with
// [vaulterr.ErrAlreadyExists] if username is already taken.
func (r *AccountRepository) Insert(ctx context.Context, acc entity.Account) error {
	_, err := r.ex.ExecContext(ctx, insertAccount,
		acc.Username,
		encoding.Encode(acc.PasswordSalt[:]),
		encoding.Encode(acc.DblHashedPassword.Hash[:]),
		encoding.Encode(acc.DblHashedPassword.Salt[:]),
		encoding.Encode(acc.EncryptedKey.Cipherbytes),
		encoding.Encode(acc.EncryptedKey.Nonce[:]),
	)
	if err != nil {
		return classifyConstraintError(err)
	}
	return nil
}

// Delete implements spec §4.4 operation 6 for Account.
func (r *AccountRepository) Delete(ctx context.Context, username string) error {
	return execAssertingOneRow(ctx, r.ex, deleteAccount, []any{username})
}

// UpdatePasswordSalt implements spec §4.6.1 change-password step 2
// (password_salt column).
func (r *AccountRepository) UpdatePasswordSalt(ctx context.Context, username string, salt [64]byte) error {
	return updateOneColumn(ctx, r.ex, "accounts", "password_salt", encoding.Encode(salt[:]), sq.Eq{"username": username})
}

// UpdateDblHashedPasswordHash updates the dbl_hashed_password_hash column.
func (r *AccountRepository) UpdateDblHashedPasswordHash(ctx context.Context, username string, hash [32]byte) error {
	return updateOneColumn(ctx, r.ex, "accounts", "dbl_hashed_password_hash", encoding.Encode(hash[:]), sq.Eq{"username": username})
}

// UpdateDblHashedPasswordSalt updates the dbl_hashed_password_salt column.
func (r *AccountRepository) UpdateDblHashedPasswordSalt(ctx context.Context, username string, salt [64]byte) error {
	return updateOneColumn(ctx, r.ex, "accounts", "dbl_hashed_password_salt", encoding.Encode(salt[:]), sq.Eq{"username": username})
}

// UpdateEncryptedKeyCipherbytes updates the encrypted_key_cipherbytes column.
func (r *AccountRepository) UpdateEncryptedKeyCipherbytes(ctx context.Context, username string, cipherbytes []byte) error {
	return updateOneColumn(ctx, r.ex, "accounts", "encrypted_key_cipherbytes", encoding.Encode(cipherbytes), sq.Eq{"username": username})
}

// UpdateEncryptedKeyNonce updates the encrypted_key_nonce column.
func (r *AccountRepository) UpdateEncryptedKeyNonce(ctx context.Context, username string, nonce [12]byte) error {
	return updateOneColumn(ctx, r.ex, "accounts", "encrypted_key_nonce", encoding.Encode(nonce[:]), sq.Eq{"username": username})
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*entity.Account, error) {
	var (
		username                                                           string
		passwordSaltEnc, hashEnc, hashSaltEnc, keyCipherbytesEnc, keyNonceEnc string
	)

	if err := s.Scan(&username, &passwordSaltEnc, &hashEnc, &hashSaltEnc, &keyCipherbytesEnc, &keyNonceEnc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	passwordSalt, err := encoding.DecodeFixed(passwordSaltEnc, 64)
	if err != nil {
		return nil, err
	}
	hash, err := encoding.DecodeFixed(hashEnc, 32)
	if err != nil {
		return nil, err
	}
	hashSalt, err := encoding.DecodeFixed(hashSaltEnc, 64)
	if err != nil {
		return nil, err
	}
	keyCipherbytes, err := encoding.Decode(keyCipherbytesEnc)
	if err != nil {
		return nil, err
	}
	keyNonce, err := encoding.DecodeFixed(keyNonceEnc, 12)
	if err != nil {
		return nil, err
	}

	acc := &entity.Account{Username: username}
	copy(acc.PasswordSalt[:], passwordSalt)
	copy(acc.DblHashedPassword.Hash[:], hash)
	copy(acc.DblHashedPassword.Salt[:], hashSalt)
	acc.EncryptedKey.Cipherbytes = keyCipherbytes
	copy(acc.EncryptedKey.Nonce[:], keyNonce)

	return acc, nil
}
