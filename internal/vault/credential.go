// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/entity"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// CredentialPlaintext is the decrypted view of a [entity.Credential],
// returned by [Vault.LoadCredential] and accepted by [Vault.CreateCredential].
// It never touches the metadata store directly.
type CredentialPlaintext struct {
	Name     string
	Username string
	Password string
	Notes    string
}

// CreateCredential implements spec §4.6.3 "Create". Uniqueness is
// enforced by attempting [Vault.LoadCredential] first and refusing the
// create if it succeeds (invariant C1); the schema alone cannot enforce
// equality of plaintexts, only of stored ciphertext.
func (v *Vault) CreateCredential(ctx context.Context, unlocked *entity.UnlockedAccount, plaintext CredentialPlaintext) (*entity.Credential, error) {
	if _, _, err := v.LoadCredential(ctx, unlocked, plaintext.Name); err == nil {
		return nil, fmt.Errorf("credential %q: %w", plaintext.Name, vaulterr.ErrAlreadyExists)
	} else if !isNotFound(err) {
		return nil, err
	}

	name, err := sealString(unlocked.Key, plaintext.Name)
	if err != nil {
		return nil, err
	}
	username, err := sealString(unlocked.Key, plaintext.Username)
	if err != nil {
		return nil, err
	}
	password, err := sealString(unlocked.Key, plaintext.Password)
	if err != nil {
		return nil, err
	}
	notes, err := sealString(unlocked.Key, plaintext.Notes)
	if err != nil {
		return nil, err
	}

	cred := entity.Credential{
		OwnerUsername: unlocked.Username,
		Name:          name,
		Username:      username,
		Password:      password,
		Notes:         notes,
	}

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.Credentials().Insert(ctx, cred); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &cred, nil
}

// LoadCredential implements spec §4.6.3 "Load". It scans every credential
// owned by unlocked.Username, decrypting each stored name and comparing it
// to the requested plaintext name; this is O(n) in the owner's credential
// count, because AEAD's randomised nonces mean the same plaintext name
// never produces the same stored ciphertext twice.
func (v *Vault) LoadCredential(ctx context.Context, unlocked *entity.UnlockedAccount, name string) (*entity.Credential, CredentialPlaintext, error) {
	owned, err := v.store.Credentials().SelectOwned(ctx, unlocked.Username)
	if err != nil {
		return nil, CredentialPlaintext{}, err
	}

	for i := range owned {
		cred := owned[i]
		decryptedName, err := openString(unlocked.Key, cred.Name)
		if err != nil {
			continue
		}
		if decryptedName != name {
			continue
		}

		decryptedUsername, err := openString(unlocked.Key, cred.Username)
		if err != nil {
			return nil, CredentialPlaintext{}, err
		}
		decryptedPassword, err := openString(unlocked.Key, cred.Password)
		if err != nil {
			return nil, CredentialPlaintext{}, err
		}
		decryptedNotes, err := openString(unlocked.Key, cred.Notes)
		if err != nil {
			return nil, CredentialPlaintext{}, err
		}

		return &cred, CredentialPlaintext{
			Name:     decryptedName,
			Username: decryptedUsername,
			Password: decryptedPassword,
			Notes:    decryptedNotes,
		}, nil
	}

	return nil, CredentialPlaintext{}, fmt.Errorf("credential %q: %w", name, vaulterr.ErrNotFound)
}

// ListCredentials implements spec §4.6.3 "list": every credential owned by
// username, still sealed. Callers that need plaintext must decrypt each
// field themselves, or call [Vault.LoadCredential] by name.
func (v *Vault) ListCredentials(ctx context.Context, username string) ([]entity.Credential, error) {
	return v.store.Credentials().SelectOwned(ctx, username)
}

// CredentialField identifies which logical field of a credential an
// update targets.
type CredentialField int

const (
	CredentialFieldUsername CredentialField = iota
	CredentialFieldPassword
	CredentialFieldNotes
	CredentialFieldName
)

// UpdateCredential implements spec §4.6.3 "Update": re-seals newValue with
// a fresh nonce and, in a single transaction, updates both the
// cipherbytes and nonce columns for the targeted field.
func (v *Vault) UpdateCredential(ctx context.Context, unlocked *entity.UnlockedAccount, name string, field CredentialField, newValue string) error {
	cred, _, err := v.LoadCredential(ctx, unlocked, name)
	if err != nil {
		return err
	}

	sealed, err := sealString(unlocked.Key, newValue)
	if err != nil {
		return err
	}

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	credentials := tx.Credentials()
	owner := unlocked.Username

	switch field {
	case CredentialFieldUsername:
		err = credentials.UpdateUsername(ctx, owner, cred.Name.Cipherbytes, sealed)
	case CredentialFieldPassword:
		err = credentials.UpdatePassword(ctx, owner, cred.Name.Cipherbytes, sealed)
	case CredentialFieldNotes:
		err = credentials.UpdateNotes(ctx, owner, cred.Name.Cipherbytes, sealed)
	case CredentialFieldName:
		err = credentials.UpdateName(ctx, owner, cred.Name.Cipherbytes, sealed)
	default:
		err = fmt.Errorf("unknown credential field %d: %w", field, vaulterr.ErrPrecondition)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteCredential implements spec §4.6.3 "Delete": loads the credential to
// obtain the stored name.Cipherbytes (the primary-key component), then
// deletes the row.
func (v *Vault) DeleteCredential(ctx context.Context, unlocked *entity.UnlockedAccount, name string) error {
	cred, _, err := v.LoadCredential(ctx, unlocked, name)
	if err != nil {
		return err
	}

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.Credentials().Delete(ctx, unlocked.Username, cred.Name.Cipherbytes); err != nil {
		return err
	}

	return tx.Commit()
}

func isNotFound(err error) bool {
	return errors.Is(err, vaulterr.ErrNotFound)
}
