// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/vaultkeeper/vaultkeeper/internal/crypto"
	"github.com/vaultkeeper/vaultkeeper/internal/entity"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// CreateFile implements spec §4.6.4 "Create": the contents are sealed
// under K, the ciphertext blob is written exclusively to
// dataDir/username/filename, and a matching FileData row is inserted in
// the same transaction. Either the metadata insert or the exclusive file
// create can fail on a duplicate — whichever triggers first aborts
// before the other has a chance to leave orphaned state, and the
// deferred rollback undoes the metadata side if the filesystem side
// fails after it. A filename or resulting path that is not valid UTF-8 is
// rejected with [vaulterr.ErrCorrupt] before anything is written.
func (v *Vault) CreateFile(ctx context.Context, unlocked *entity.UnlockedAccount, filename string, contents []byte) (*entity.FileData, error) {
	path, err := v.blobs.FilePath(unlocked.Username, filename)
	if err != nil {
		return nil, err
	}
	if !utf8.ValidString(filename) || !utf8.ValidString(path) {
		return nil, fmt.Errorf("file %q: path and filename must be valid UTF-8: %w", filename, vaulterr.ErrCorrupt)
	}

	cipherbytes, nonce, err := crypto.Seal(unlocked.Key[:], contents)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}

	fd := entity.FileData{
		Path:          path,
		Filename:      filename,
		OwnerUsername: unlocked.Username,
	}
	copy(fd.ContentsNonce[:], nonce)

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.FilesData().Insert(ctx, fd); err != nil {
		return nil, err
	}

	if err := v.blobs.CreateFileExclusive(path, cipherbytes); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &fd, nil
}

// LoadFile implements spec §4.6.4 "Load": fetches the FileData row by
// path, reads the ciphertext blob in full, and opens it under K using the
// stored nonce. A decrypt failure is surfaced as [vaulterr.ErrCorrupt]
// rather than distinguishing a wrong key from on-disk tampering, since
// AEAD cannot tell the two apart.
func (v *Vault) LoadFile(ctx context.Context, unlocked *entity.UnlockedAccount, path string) ([]byte, error) {
	fd, err := v.store.FilesData().Select(ctx, path)
	if err != nil {
		return nil, err
	}
	if fd == nil {
		return nil, fmt.Errorf("file %q: %w", path, vaulterr.ErrNotFound)
	}

	f, err := v.blobs.OpenFile(fd.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cipherbytes, err := v.blobs.ReadAll(f)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Open(unlocked.Key[:], cipherbytes, fd.ContentsNonce[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vaulterr.ErrCorrupt, err)
	}
	return plaintext, nil
}

// ListFiles implements spec §4.6.4 "List": every file owned by username.
func (v *Vault) ListFiles(ctx context.Context, username string) ([]entity.FileData, error) {
	return v.store.FilesData().SelectOwned(ctx, username)
}

// UpdateFile implements spec §4.6.4 "Update": seals newContents under a
// fresh nonce, truncates and rewrites the on-disk blob, and updates the
// stored nonce column in the same transaction.
func (v *Vault) UpdateFile(ctx context.Context, unlocked *entity.UnlockedAccount, path string, newContents []byte) error {
	fd, err := v.store.FilesData().Select(ctx, path)
	if err != nil {
		return err
	}
	if fd == nil {
		return fmt.Errorf("file %q: %w", path, vaulterr.ErrNotFound)
	}

	cipherbytes, nonce, err := crypto.Seal(unlocked.Key[:], newContents)
	if err != nil {
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	var newNonce [12]byte
	copy(newNonce[:], nonce)

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.FilesData().UpdateContentsNonce(ctx, path, newNonce); err != nil {
		return err
	}

	if err := v.blobs.WriteAll(fd.Path, cipherbytes); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteFile implements spec §4.6.4 "Delete": removes the FileData row and
// the on-disk blob, committing only once both have succeeded.
func (v *Vault) DeleteFile(ctx context.Context, path string) error {
	fd, err := v.store.FilesData().Select(ctx, path)
	if err != nil {
		return err
	}
	if fd == nil {
		return fmt.Errorf("file %q: %w", path, vaulterr.ErrNotFound)
	}

	tx, err := v.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.FilesData().Delete(ctx, path); err != nil {
		return err
	}

	if err := v.blobs.RemoveFile(fd.Path); err != nil {
		return err
	}

	return tx.Commit()
}
