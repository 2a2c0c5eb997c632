// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package editor implements the Vault's secure editor helper (spec §4.7):
// write plaintext to a uniquely-named temp file, block on an external
// editor process, read the result back, then scrub and delete the temp
// file. It is the only place plaintext ever touches disk outside the
// sealed blob store, so the scrub step is a best-effort mitigation, not a
// guarantee — an attacker with raw device access after the fact, or a
// filesystem with copy-on-write snapshots, can still recover it.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/vaultkeeper/vaultkeeper/internal/crypto"
	"github.com/vaultkeeper/vaultkeeper/internal/utils"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

var tempFileNames = utils.NewUUIDGenerator()

// scrubPasses is the number of times a temp file is overwritten with
// fresh CSPRNG bytes before deletion, grounded on the original
// `edit.rs`'s PASSES constant.
const scrubPasses = 3

// EditBytes writes input to a new UUID-named file under tempDir, blocks
// on the editor named by the EDITOR environment variable (falling back
// to "vi" if unset), reads back the file's contents once the editor
// exits, then scrubs and deletes the temp file. It returns the edited
// contents.
func EditBytes(tempDir string, input []byte) ([]byte, error) {
	path, err := newTempFile(tempDir, input)
	if err != nil {
		return nil, err
	}
	defer shredTempFile(path)

	if err := runEditor(path); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return edited, nil
}

// EditString is [EditBytes] for the common case of editing UTF-8 text.
func EditString(tempDir, input string) (string, error) {
	edited, err := EditBytes(tempDir, []byte(input))
	if err != nil {
		return "", err
	}
	return string(edited), nil
}

func newTempFile(tempDir string, input []byte) (string, error) {
	name := tempFileNames.Generate() + ".tmp"
	path := filepath.Join(tempDir, name)

	if err := os.WriteFile(path, input, 0o600); err != nil {
		return "", fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return path, nil
}

func runEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: editor %q: %w", vaulterr.ErrIO, editor, err)
	}
	return nil
}

// shredTempFile overwrites path with scrubPasses passes of fresh random
// bytes before removing it. It is best-effort: it cannot undo copy-on-write
// filesystem snapshots or prior reads of the original bytes by another
// process, and a failed overwrite still falls through to the removal.
func shredTempFile(path string) error {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, statErr)
	}

	size := info.Size()
	for i := 0; i < scrubPasses; i++ {
		noise, err := crypto.RandomBytes(int(size))
		if err != nil {
			continue
		}
		_ = os.WriteFile(path, noise, 0o600)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %w", vaulterr.ErrIO, err)
	}
	return nil
}
