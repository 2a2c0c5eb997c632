// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package blobstore implements the Vault's filesystem store: one
// subdirectory per account inside a designated data directory, holding one
// ciphertext blob per file. There is no recursion and no hierarchy beyond
// that single level. The teacher has no equivalent package — everything it
// stores lives in the database — so this is new code, translated from the
// original Rust `vault::filesystem` module (spec §4.5) into idiomatic Go.
package blobstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

// Store roots all operations at a single data directory.
type Store struct {
	dataDir string
}

// New constructs a [Store] rooted at dataDir. It does not itself verify
// the directory; call [Store.VerifyWritableDir] for that.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// VerifyWritableDir checks that path exists, is a directory, and is not
// read-only. Used at Vault open to validate the data directory, and
// internally before creating a new account subdirectory.
func (s *Store) VerifyWritableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", vaulterr.ErrPrecondition, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", vaulterr.ErrPrecondition, path)
	}
	if info.Mode().Perm()&0200 == 0 {
		return fmt.Errorf("%w: %q is read-only", vaulterr.ErrPrecondition, path)
	}
	return nil
}

// AccountDir returns the subdirectory owned by username, verifying it
// exists and is writable.
func (s *Store) AccountDir(username string) (string, error) {
	dir := filepath.Join(s.dataDir, username)
	if err := s.VerifyWritableDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// FilePath returns the path a file named filename would occupy under
// username's account directory. Pure path construction plus the
// writability check on the account directory; it does not check whether
// filename itself exists.
func (s *Store) FilePath(username, filename string) (string, error) {
	dir, err := s.AccountDir(username)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// NewAccountDir creates the subdirectory for username. Fails if it already
// exists, or if the data directory itself is not writable.
func (s *Store) NewAccountDir(username string) error {
	if err := s.VerifyWritableDir(s.dataDir); err != nil {
		return err
	}

	dir := filepath.Join(s.dataDir, username)
	if err := os.Mkdir(dir, 0o700); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: account directory %q already exists", vaulterr.ErrAlreadyExists, dir)
		}
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return nil
}

// RemoveDirAll recursively removes an account's entire subdirectory,
// including every blob it contains.
func (s *Store) RemoveDirAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return nil
}

// CreateFileExclusive creates a new file at path containing contents.
// Fails with [vaulterr.ErrAlreadyExists] if path already exists, preventing
// a silent overwrite.
func (s *Store) CreateFileExclusive(path string, contents []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %q already exists", vaulterr.ErrAlreadyExists, path)
		}
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	defer f.Close()

	if _, err := f.Write(contents); err != nil {
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return nil
}

// OpenFile opens an existing file for reading and writing. It never
// creates the file: callers use [Store.CreateFileExclusive] for that.
func (s *Store) OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", vaulterr.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return f, nil
}

// ReadAll reads an open file to completion from its current offset.
func (s *Store) ReadAll(f *os.File) ([]byte, error) {
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return b, nil
}

// WriteAll truncates the file at path and writes contents to it in full.
func (s *Store) WriteAll(path string, contents []byte) error {
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return nil
}

// RemoveFile deletes the file at path.
func (s *Store) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", vaulterr.ErrNotFound, path)
		}
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return nil
}
