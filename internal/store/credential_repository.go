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
)

// CredentialRepository is the relational access layer for the credentials
// table. Its composite primary key is (owner_username,
// encrypted_name_cipherbytes): see entity.Credential's doc comment for why
// that fixes the stored ciphertext of the name rather than its plaintext.
type CredentialRepository struct {
	ex     execer
	logger *logger.Logger
}

// Select implements spec §4.4 operation 1 for Credential, keyed by the
// composite primary key.
func (r *CredentialRepository) Select(ctx context.Context, owner string, nameCipherbytes []byte) (*entity.Credential, error) {
	row := r.ex.QueryRowContext(ctx, selectCredential, owner, encoding.Encode(nameCipherbytes))
	cred, err := scanCredential(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// SelectOwned implements spec §4.4 operation 3 for Credential: every
// credential belonging to owner. The Vault uses this for the decrypt-and-
// compare scan behind plaintext-name lookup (spec §4.6.3).
func (r *CredentialRepository) SelectOwned(ctx context.Context, owner string) ([]entity.Credential, error) {
	rows, err := r.ex.QueryContext(ctx, selectOwnedCredentials, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var creds []entity.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, *cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return creds, nil
}

// SelectAll implements spec §4.4 operation 4 for Credential.
func (r *CredentialRepository) SelectAll(ctx context.Context) ([]entity.Credential, error) {
	rows, err := r.ex.QueryContext(ctx, selectAllCredentials)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var creds []entity.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, *cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return creds, nil
}

// Insert implements spec §4.4 operation 5 for Credential.
func (r *CredentialRepository) Insert(ctx context.Context, cred entity.Credential) error {
	_, err := r.ex.ExecContext(ctx, insertCredential,
		cred.OwnerUsername,
		encoding.Encode(cred.Name.Cipherbytes), encoding.Encode(cred.Name.Nonce[:]),
		encoding.Encode(cred.Username.Cipherbytes), encoding.Encode(cred.Username.Nonce[:]),
		encoding.Encode(cred.Password.Cipherbytes), encoding.Encode(cred.Password.Nonce[:]),
		encoding.Encode(cred.Notes.Cipherbytes), encoding.Encode(cred.Notes.Nonce[:]),
	)
	if err != nil {
		return classifyConstraintError(err)
	}
	return nil
}

// Delete implements spec §4.4 operation 6 for Credential.
func (r *CredentialRepository) Delete(ctx context.Context, owner string, nameCipherbytes []byte) error {
	return execAssertingOneRow(ctx, r.ex, deleteCredential, []any{owner, encoding.Encode(nameCipherbytes)})
}

func (r *CredentialRepository) credentialPK(owner string, nameCipherbytes []byte) sq.Eq {
	return sq.Eq{"owner_username": owner, "encrypted_name_cipherbytes": encoding.Encode(nameCipherbytes)}
}

// UpdateUsername re-seals the username field under a fresh nonce — spec
// §4.6.3 "Update" — by updating both the cipherbytes and nonce columns.
func (r *CredentialRepository) UpdateUsername(ctx context.Context, owner string, nameCipherbytes []byte, sealed entity.Encrypted) error {
	pk := r.credentialPK(owner, nameCipherbytes)
	if err := updateOneColumn(ctx, r.ex, "credentials", "encrypted_username_cipherbytes", encoding.Encode(sealed.Cipherbytes), pk); err != nil {
		return err
	}
	return updateOneColumn(ctx, r.ex, "credentials", "encrypted_username_nonce", encoding.Encode(sealed.Nonce[:]), pk)
}

// UpdatePassword re-seals the password field under a fresh nonce.
func (r *CredentialRepository) UpdatePassword(ctx context.Context, owner string, nameCipherbytes []byte, sealed entity.Encrypted) error {
	pk := r.credentialPK(owner, nameCipherbytes)
	if err := updateOneColumn(ctx, r.ex, "credentials", "encrypted_password_cipherbytes", encoding.Encode(sealed.Cipherbytes), pk); err != nil {
		return err
	}
	return updateOneColumn(ctx, r.ex, "credentials", "encrypted_password_nonce", encoding.Encode(sealed.Nonce[:]), pk)
}

// UpdateNotes re-seals the notes field under a fresh nonce.
func (r *CredentialRepository) UpdateNotes(ctx context.Context, owner string, nameCipherbytes []byte, sealed entity.Encrypted) error {
	pk := r.credentialPK(owner, nameCipherbytes)
	if err := updateOneColumn(ctx, r.ex, "credentials", "encrypted_notes_cipherbytes", encoding.Encode(sealed.Cipherbytes), pk); err != nil {
		return err
	}
	return updateOneColumn(ctx, r.ex, "credentials", "encrypted_notes_nonce", encoding.Encode(sealed.Nonce[:]), pk)
}

// UpdateName re-seals the name field itself. Because the plaintext name is
// part of the composite primary key (via its stored cipherbytes), this
// changes the row's identity; callers must already hold the old
// nameCipherbytes to locate the row being renamed.
func (r *CredentialRepository) UpdateName(ctx context.Context, owner string, oldNameCipherbytes []byte, sealed entity.Encrypted) error {
	pk := r.credentialPK(owner, oldNameCipherbytes)
	if err := updateOneColumn(ctx, r.ex, "credentials", "encrypted_name_cipherbytes", encoding.Encode(sealed.Cipherbytes), pk); err != nil {
		return err
	}
	newPK := sq.Eq{"owner_username": owner, "encrypted_name_cipherbytes": encoding.Encode(sealed.Cipherbytes)}
	return updateOneColumn(ctx, r.ex, "credentials", "encrypted_name_nonce", encoding.Encode(sealed.Nonce[:]), newPK)
}

func scanCredential(s scanner) (*entity.Credential, error) {
	var (
		owner                                                   string
		nameCB, nameN, userCB, userN, passCB, passN, notesCB, notesN string
	)

	if err := s.Scan(&owner, &nameCB, &nameN, &userCB, &userN, &passCB, &passN, &notesCB, &notesN); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	cred := &entity.Credential{OwnerUsername: owner}
	var err error

	if cred.Name, err = decodeEncrypted(nameCB, nameN); err != nil {
		return nil, err
	}
	if cred.Username, err = decodeEncrypted(userCB, userN); err != nil {
		return nil, err
	}
	if cred.Password, err = decodeEncrypted(passCB, passN); err != nil {
		return nil, err
	}
	if cred.Notes, err = decodeEncrypted(notesCB, notesN); err != nil {
		return nil, err
	}

	return cred, nil
}

func decodeEncrypted(cipherbytesEnc, nonceEnc string) (entity.Encrypted, error) {
	cipherbytes, err := encoding.Decode(cipherbytesEnc)
	if err != nil {
		return entity.Encrypted{}, err
	}
	nonce, err := encoding.DecodeFixed(nonceEnc, 12)
	if err != nil {
		return entity.Encrypted{}, err
	}
	var enc entity.Encrypted
	enc.Cipherbytes = cipherbytes
	copy(enc.Nonce[:], nonce)
	return enc, nil
}
