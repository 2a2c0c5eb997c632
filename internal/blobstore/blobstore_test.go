// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package blobstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

func TestNewAccountDir_CreatesThenRejectsDuplicate(t *testing.T) {
	s := New(t.TempDir())

	if err := s.NewAccountDir("mr_test"); err != nil {
		t.Fatalf("NewAccountDir error: %v", err)
	}

	err := s.NewAccountDir("mr_test")
	if !errors.Is(err, vaulterr.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateFileExclusive_RejectsOverwrite(t *testing.T) {
	dataDir := t.TempDir()
	s := New(dataDir)

	if err := s.NewAccountDir("owner"); err != nil {
		t.Fatalf("NewAccountDir error: %v", err)
	}
	path, err := s.FilePath("owner", "f")
	if err != nil {
		t.Fatalf("FilePath error: %v", err)
	}

	if err := s.CreateFileExclusive(path, []byte("hello")); err != nil {
		t.Fatalf("CreateFileExclusive error: %v", err)
	}

	err = s.CreateFileExclusive(path, []byte("overwrite attempt"))
	if !errors.Is(err, vaulterr.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestWriteAll_TruncatesExistingContent(t *testing.T) {
	dataDir := t.TempDir()
	s := New(dataDir)
	path := filepath.Join(dataDir, "f")

	if err := s.CreateFileExclusive(path, []byte("this is a test.")); err != nil {
		t.Fatalf("CreateFileExclusive error: %v", err)
	}
	if err := s.WriteAll(path, []byte("shorter")); err != nil {
		t.Fatalf("WriteAll error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != "shorter" {
		t.Fatalf("ReadFile = %q, want %q (stale bytes from truncation)", got, "shorter")
	}
}

func TestOpenFile_MissingFileIsNotFound(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.OpenFile(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, vaulterr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveDirAll_RemovesAccountAndContents(t *testing.T) {
	dataDir := t.TempDir()
	s := New(dataDir)

	if err := s.NewAccountDir("owner"); err != nil {
		t.Fatalf("NewAccountDir error: %v", err)
	}
	path, err := s.FilePath("owner", "f")
	if err != nil {
		t.Fatalf("FilePath error: %v", err)
	}
	if err := s.CreateFileExclusive(path, []byte("eggs\nmilk\nbread")); err != nil {
		t.Fatalf("CreateFileExclusive error: %v", err)
	}

	accountDir := filepath.Join(dataDir, "owner")
	if err := s.RemoveDirAll(accountDir); err != nil {
		t.Fatalf("RemoveDirAll error: %v", err)
	}

	if _, err := os.Stat(accountDir); !os.IsNotExist(err) {
		t.Fatalf("expected account directory to be gone, stat err = %v", err)
	}
}

func TestVerifyWritableDir_RejectsNonDirectory(t *testing.T) {
	dataDir := t.TempDir()
	filePath := filepath.Join(dataDir, "not-a-dir")
	if err := os.WriteFile(filePath, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	s := New(dataDir)
	err := s.VerifyWritableDir(filePath)
	if !errors.Is(err, vaulterr.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}
