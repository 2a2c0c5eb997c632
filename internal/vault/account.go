// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/crypto"
	"github.com/vaultkeeper/vaultkeeper/internal/entity"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// CreateAccount implements spec §4.6.1 "Creation". It samples a fresh
// data-encryption key K, derives the key-wrapping key H1 from password,
// seals K under H1 to produce encrypted_key, derives the double-hash H2
// from H1, and persists the sealed account.
//
// The filesystem mutation in this operation's two-store skeleton is
// creating the account's subdirectory, so that credential and file
// operations on this account have somewhere to write a blob.
func (v *Vault) CreateAccount(ctx context.Context, username, password string) (*entity.Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	h1Salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	h1Hash := crypto.DeriveSessionKey([]byte(password), h1Salt)

	keyCipherbytes, keyNonce, err := crypto.Seal(h1Hash, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}

	h2Salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	h2Hash := crypto.DeriveSessionKey(h1Hash, h2Salt)

	acc := entity.Account{Username: username}
	copy(acc.PasswordSalt[:], h1Salt)
	copy(acc.DblHashedPassword.Hash[:], h2Hash)
	copy(acc.DblHashedPassword.Salt[:], h2Salt)
	acc.EncryptedKey.Cipherbytes = keyCipherbytes
	copy(acc.EncryptedKey.Nonce[:], keyNonce)

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.Accounts().Insert(ctx, acc); err != nil {
		return nil, err
	}

	if err := v.blobs.NewAccountDir(username); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &acc, nil
}

// Unlock implements spec §4.6.1 "Login (unlock)". It recomputes H1' from
// the supplied password and the stored salt, recomputes H2' from H1' and
// compares it to the stored double-hash, then — only if that compare
// succeeds — opens encrypted_key under H1' to recover K.
//
// A mismatch at either the hash compare or the key-unseal step yields the
// single, indistinguishable [vaulterr.ErrAuthentication] required by spec
// invariant P8. An unknown username yields the same error, so a failed
// login does not reveal whether the account exists.
func (v *Vault) Unlock(ctx context.Context, username, password string) (*entity.UnlockedAccount, error) {
	acc, err := v.store.Accounts().SelectOrFail(ctx, username)
	if errors.Is(err, vaulterr.ErrNotFound) {
		return nil, vaulterr.ErrAuthentication
	}
	if err != nil {
		return nil, err
	}

	h1Hash := crypto.DeriveSessionKey([]byte(password), acc.PasswordSalt[:])
	h2Hash := crypto.DeriveSessionKey(h1Hash, acc.DblHashedPassword.Salt[:])

	if subtle.ConstantTimeCompare(h2Hash, acc.DblHashedPassword.Hash[:]) != 1 {
		return nil, vaulterr.ErrAuthentication
	}

	key, err := crypto.Open(h1Hash, acc.EncryptedKey.Cipherbytes, acc.EncryptedKey.Nonce[:])
	if err != nil {
		return nil, vaulterr.ErrAuthentication
	}

	unlocked := &entity.UnlockedAccount{Account: *acc}
	copy(unlocked.Key[:], key)
	return unlocked, nil
}

// ChangePassword implements spec §4.6.1 "Change password". It derives a
// fresh key-wrapping key from newPassword, re-seals the already-unlocked K
// under it, derives a fresh double-hash, and updates all five account
// columns inside a single transaction. K itself never changes, so every
// credential and file sealed under it remains decryptable afterward.
func (v *Vault) ChangePassword(ctx context.Context, unlocked *entity.UnlockedAccount, newPassword string) (*entity.UnlockedAccount, error) {
	h1Salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	h1Hash := crypto.DeriveSessionKey([]byte(newPassword), h1Salt)

	keyCipherbytes, keyNonce, err := crypto.Seal(h1Hash, unlocked.Key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}

	h2Salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	h2Hash := crypto.DeriveSessionKey(h1Hash, h2Salt)

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	accounts := tx.Accounts()
	username := unlocked.Username

	var newSalt [64]byte
	copy(newSalt[:], h1Salt)
	if err := accounts.UpdatePasswordSalt(ctx, username, newSalt); err != nil {
		return nil, err
	}

	var newHash [32]byte
	copy(newHash[:], h2Hash)
	if err := accounts.UpdateDblHashedPasswordHash(ctx, username, newHash); err != nil {
		return nil, err
	}

	var newHashSalt [64]byte
	copy(newHashSalt[:], h2Salt)
	if err := accounts.UpdateDblHashedPasswordSalt(ctx, username, newHashSalt); err != nil {
		return nil, err
	}

	if err := accounts.UpdateEncryptedKeyCipherbytes(ctx, username, keyCipherbytes); err != nil {
		return nil, err
	}

	var newKeyNonce [12]byte
	copy(newKeyNonce[:], keyNonce)
	if err := accounts.UpdateEncryptedKeyNonce(ctx, username, newKeyNonce); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated := *unlocked
	updated.PasswordSalt = newSalt
	updated.DblHashedPassword.Hash = newHash
	updated.DblHashedPassword.Salt = newHashSalt
	updated.EncryptedKey.Cipherbytes = keyCipherbytes
	updated.EncryptedKey.Nonce = newKeyNonce
	return &updated, nil
}

// DeleteAccount implements spec §4.6.2: delete the accounts row (cascading
// to every owned credential and file row), then recursively remove the
// account's filesystem subdirectory, committing only if both succeed.
func (v *Vault) DeleteAccount(ctx context.Context, username string) error {
	accountDir, err := v.blobs.AccountDir(username)
	if err != nil {
		return err
	}

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.Accounts().Delete(ctx, username); err != nil {
		return err
	}

	if err := v.blobs.RemoveDirAll(accountDir); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadAccount returns the sealed Account record for username, or
// [vaulterr.ErrNotFound] if no such account exists.
func (v *Vault) LoadAccount(ctx context.Context, username string) (*entity.Account, error) {
	return v.store.Accounts().SelectOrFail(ctx, username)
}
