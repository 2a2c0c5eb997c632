// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault implements the Vault orchestrator: the public API that
// composes internal/crypto, internal/store, and internal/blobstore into
// the password-based key-wrap protocol and the two-store consistency
// protocol. It is the hard core of the system — every exported mutating
// method follows the same skeleton: open a metadata transaction, perform the
// metadata mutations, perform the filesystem mutation, then commit or
// roll back, grounded on the teacher's transaction-then-rollback idiom in
// store.privateDataRepository.
package vault

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vaultkeeper/vaultkeeper/internal/blobstore"
	"github.com/vaultkeeper/vaultkeeper/internal/crypto"
	"github.com/vaultkeeper/vaultkeeper/internal/entity"
	"github.com/vaultkeeper/vaultkeeper/internal/logger"
	"github.com/vaultkeeper/vaultkeeper/internal/store"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// Vault is the single entry point to an opened vault. It owns exclusive
// access to one database file and one data directory for the lifetime of
// the process (spec §5 "Shared-resource policy") — there is no internal
// concurrency and no locking beyond what SQLite itself provides.
type Vault struct {
	store   *store.Store
	blobs   *blobstore.Store
	dataDir string
	logger  *logger.Logger
}

// Open connects to the metadata store at dbPath and roots the filesystem
// store at dataDir. Both the data directory and the database file must
// already exist; this is an explicit precondition (spec §4.4/§4.6.5), not
// something Open will fix up for the caller.
func Open(ctx context.Context, dataDir, dbPath string, log *logger.Logger) (*Vault, error) {
	blobs := blobstore.New(dataDir)
	if err := blobs.VerifyWritableDir(dataDir); err != nil {
		return nil, err
	}

	db, err := store.Open(ctx, dbPath, log)
	if err != nil {
		return nil, err
	}

	return &Vault{
		store:   store.New(db, log),
		blobs:   blobs,
		dataDir: dataDir,
		logger:  log,
	}, nil
}

// Close releases the underlying database connection. The filesystem store
// holds no resources of its own.
func (v *Vault) Close() error {
	return v.store.Close()
}

func sealString(key [32]byte, plaintext string) (entity.Encrypted, error) {
	cipherbytes, nonce, err := crypto.Seal(key[:], []byte(plaintext))
	if err != nil {
		return entity.Encrypted{}, fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	var enc entity.Encrypted
	enc.Cipherbytes = cipherbytes
	copy(enc.Nonce[:], nonce)
	return enc, nil
}

func openString(key [32]byte, enc entity.Encrypted) (string, error) {
	plaintext, err := crypto.Open(key[:], enc.Cipherbytes, enc.Nonce[:])
	if err != nil {
		return "", fmt.Errorf("%w: %w", vaulterr.ErrCorrupt, err)
	}
	return string(plaintext), nil
}

func fileDataPath(dataDir, username, filename string) string {
	return filepath.Join(dataDir, username, filename)
}
