// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultkeeper/vaultkeeper/internal/logger"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

func openTestVault(t *testing.T) *Vault {
	t.Helper()

	dataDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "vault.db")
	f, err := os.Create(dbPath)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	v, err := Open(context.Background(), dataDir, dbPath, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })

	return v
}

func TestCreateAccount_ThenUnlock(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "correct horse battery staple")
	require.NoError(t, err)

	unlocked, err := v.Unlock(ctx, "mr_test", "correct horse battery staple")
	require.NoError(t, err)
	require.Equal(t, "mr_test", unlocked.Username)
}

func TestUnlock_WrongPasswordAndMissingAccountAreIndistinguishable(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "correct horse battery staple")
	require.NoError(t, err)

	_, err = v.Unlock(ctx, "mr_test", "wrong password")
	require.ErrorIs(t, err, vaulterr.ErrAuthentication)

	_, err = v.Unlock(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, vaulterr.ErrAuthentication)
}

func TestChangePassword_PreservesCredentialsAndFiles(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "old password")
	require.NoError(t, err)
	unlocked, err := v.Unlock(ctx, "mr_test", "old password")
	require.NoError(t, err)

	_, err = v.CreateCredential(ctx, unlocked, CredentialPlaintext{
		Name: "github", Username: "mr_test", Password: "hunter2", Notes: "",
	})
	require.NoError(t, err)

	_, err = v.CreateFile(ctx, unlocked, "notes.txt", []byte("eggs\nmilk\nbread"))
	require.NoError(t, err)

	updated, err := v.ChangePassword(ctx, unlocked, "new password")
	require.NoError(t, err)

	_, err = v.Unlock(ctx, "mr_test", "old password")
	require.ErrorIs(t, err, vaulterr.ErrAuthentication)

	relocked, err := v.Unlock(ctx, "mr_test", "new password")
	require.NoError(t, err)
	require.Equal(t, updated.Key, relocked.Key)

	_, plaintext, err := v.LoadCredential(ctx, relocked, "github")
	require.NoError(t, err)
	require.Equal(t, "hunter2", plaintext.Password)

	contents, err := v.LoadFile(ctx, relocked, filepath.Join(v.dataDir, "mr_test", "notes.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("eggs\nmilk\nbread"), contents)
}

func TestDeleteAccount_CascadesCredentialsAndRemovesDirectory(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "password")
	require.NoError(t, err)
	unlocked, err := v.Unlock(ctx, "mr_test", "password")
	require.NoError(t, err)

	_, err = v.CreateCredential(ctx, unlocked, CredentialPlaintext{Name: "github", Username: "u", Password: "p"})
	require.NoError(t, err)

	accountDir := filepath.Join(v.dataDir, "mr_test")
	_, statErr := os.Stat(accountDir)
	require.NoError(t, statErr)

	require.NoError(t, v.DeleteAccount(ctx, "mr_test"))

	_, err = v.LoadAccount(ctx, "mr_test")
	require.ErrorIs(t, err, vaulterr.ErrNotFound)

	creds, err := v.ListCredentials(ctx, "mr_test")
	require.NoError(t, err)
	require.Empty(t, creds)

	_, statErr = os.Stat(accountDir)
	require.True(t, os.IsNotExist(statErr))
}

func TestCreateCredential_RejectsDuplicatePlaintextName(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "password")
	require.NoError(t, err)
	unlocked, err := v.Unlock(ctx, "mr_test", "password")
	require.NoError(t, err)

	_, err = v.CreateCredential(ctx, unlocked, CredentialPlaintext{Name: "github", Username: "a", Password: "b"})
	require.NoError(t, err)

	_, err = v.CreateCredential(ctx, unlocked, CredentialPlaintext{Name: "github", Username: "c", Password: "d"})
	require.ErrorIs(t, err, vaulterr.ErrAlreadyExists)
}

func TestUpdateCredential_ReEncryptsField(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "password")
	require.NoError(t, err)
	unlocked, err := v.Unlock(ctx, "mr_test", "password")
	require.NoError(t, err)

	_, err = v.CreateCredential(ctx, unlocked, CredentialPlaintext{Name: "github", Username: "old", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, v.UpdateCredential(ctx, unlocked, "github", CredentialFieldUsername, "new"))

	_, plaintext, err := v.LoadCredential(ctx, unlocked, "github")
	require.NoError(t, err)
	require.Equal(t, "new", plaintext.Username)
}

func TestDeleteCredential_RemovesRow(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "password")
	require.NoError(t, err)
	unlocked, err := v.Unlock(ctx, "mr_test", "password")
	require.NoError(t, err)

	_, err = v.CreateCredential(ctx, unlocked, CredentialPlaintext{Name: "github", Username: "u", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, v.DeleteCredential(ctx, unlocked, "github"))

	_, _, err = v.LoadCredential(ctx, unlocked, "github")
	require.ErrorIs(t, err, vaulterr.ErrNotFound)
}

func TestFile_CreateLoadUpdateDeleteRoundTrip(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "password")
	require.NoError(t, err)
	unlocked, err := v.Unlock(ctx, "mr_test", "password")
	require.NoError(t, err)

	fd, err := v.CreateFile(ctx, unlocked, "shopping.txt", []byte("eggs"))
	require.NoError(t, err)

	contents, err := v.LoadFile(ctx, unlocked, fd.Path)
	require.NoError(t, err)
	require.Equal(t, []byte("eggs"), contents)

	require.NoError(t, v.UpdateFile(ctx, unlocked, fd.Path, []byte("eggs\nmilk")))

	contents, err = v.LoadFile(ctx, unlocked, fd.Path)
	require.NoError(t, err)
	require.Equal(t, []byte("eggs\nmilk"), contents)

	require.NoError(t, v.DeleteFile(ctx, fd.Path))

	_, err = v.LoadFile(ctx, unlocked, fd.Path)
	require.ErrorIs(t, err, vaulterr.ErrNotFound)

	_, statErr := os.Stat(fd.Path)
	require.True(t, os.IsNotExist(statErr))
}

func TestCreateFile_DuplicateFilenameFails(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	_, err := v.CreateAccount(ctx, "mr_test", "password")
	require.NoError(t, err)
	unlocked, err := v.Unlock(ctx, "mr_test", "password")
	require.NoError(t, err)

	_, err = v.CreateFile(ctx, unlocked, "shopping.txt", []byte("eggs"))
	require.NoError(t, err)

	_, err = v.CreateFile(ctx, unlocked, "shopping.txt", []byte("milk"))
	require.ErrorIs(t, err, vaulterr.ErrAlreadyExists)

	contents, err := v.LoadFile(ctx, unlocked, filepath.Join(v.dataDir, "mr_test", "shopping.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("eggs"), contents)
}
