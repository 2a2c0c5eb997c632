// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command vaultkeeper is a thin, undocumented demonstration harness over
// internal/vault. It wires internal/config and internal/logger together,
// opens a Vault, and dispatches a handful of subcommands. It deliberately
// does not use a flag-parsing library: the command-line argument parser
// is explicitly out of the Vault core's scope, matching the teacher's own
// cmd/client/main.go, which is similarly a thin wrapper over an App type.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vaultkeeper/vaultkeeper/internal/config"
	"github.com/vaultkeeper/vaultkeeper/internal/editor"
	"github.com/vaultkeeper/vaultkeeper/internal/entity"
	"github.com/vaultkeeper/vaultkeeper/internal/logger"
	"github.com/vaultkeeper/vaultkeeper/internal/vault"
	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.DataDir == "" {
		fmt.Fprintln(os.Stderr, "VAULTKEEPER_DATA must point at an existing data directory")
		os.Exit(1)
	}

	log := logger.NewLogger("vaultkeeper")
	ctx := context.Background()

	v, err := vault.Open(ctx, cfg.DataDir, cfg.DatabasePath(), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open error: %v\n", err)
		os.Exit(exitCode(err))
	}
	defer v.Close()

	if err := dispatch(ctx, v, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(exitCode(err))
	}
}

func dispatch(ctx context.Context, v *vault.Vault, cmd string, args []string) error {
	switch cmd {
	case "create-account":
		return cmdCreateAccount(ctx, v, args)
	case "unlock":
		return cmdUnlock(ctx, v, args)
	case "change-password":
		return cmdChangePassword(ctx, v, args)
	case "delete-account":
		return cmdDeleteAccount(ctx, v, args)
	case "add-credential":
		return cmdAddCredential(ctx, v, args)
	case "list-credentials":
		return cmdListCredentials(ctx, v, args)
	case "show-credential":
		return cmdShowCredential(ctx, v, args)
	case "edit-credential":
		return cmdEditCredential(ctx, v, args)
	case "delete-credential":
		return cmdDeleteCredential(ctx, v, args)
	case "add-file":
		return cmdAddFile(ctx, v, args)
	case "list-files":
		return cmdListFiles(ctx, v, args)
	case "edit-file":
		return cmdEditFile(ctx, v, args)
	case "delete-file":
		return cmdDeleteFile(ctx, v, args)
	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: vaultkeeper <subcommand> [args]

subcommands:
  create-account  -user NAME
  unlock          -user NAME
  change-password -user NAME
  delete-account  -user NAME
  add-credential  -user NAME -name NAME
  list-credentials -user NAME
  show-credential -user NAME -name NAME
  edit-credential -user NAME -name NAME -field username|password|notes|name
  delete-credential -user NAME -name NAME
  add-file        -user NAME -file PATH
  list-files      -user NAME
  edit-file       -user NAME -file PATH
  delete-file     -path PATH`)
}

func exitCode(err error) int {
	switch vaulterr.Classify(err) {
	case vaulterr.KindAuthentication:
		return 3
	case vaulterr.KindNotFound:
		return 4
	case vaulterr.KindAlreadyExists:
		return 5
	case vaulterr.KindPrecondition:
		return 6
	default:
		return 1
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return trimNewline(line), nil
}

func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return trimNewline(line), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func cmdCreateAccount(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("create-account", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	fs.Parse(args)
	if *user == "" {
		return fmt.Errorf("-user is required")
	}
	password, err := readPassword("password: ")
	if err != nil {
		return err
	}
	if _, err := v.CreateAccount(ctx, *user, password); err != nil {
		return err
	}
	fmt.Printf("account %q created\n", *user)
	return nil
}

func cmdUnlock(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("unlock", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	fs.Parse(args)
	if *user == "" {
		return fmt.Errorf("-user is required")
	}
	password, err := readPassword("password: ")
	if err != nil {
		return err
	}
	if _, err := v.Unlock(ctx, *user, password); err != nil {
		return err
	}
	fmt.Printf("account %q unlocked\n", *user)
	return nil
}

func cmdChangePassword(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("change-password", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	fs.Parse(args)
	if *user == "" {
		return fmt.Errorf("-user is required")
	}
	oldPassword, err := readPassword("current password: ")
	if err != nil {
		return err
	}
	unlocked, err := v.Unlock(ctx, *user, oldPassword)
	if err != nil {
		return err
	}
	newPassword, err := readPassword("new password: ")
	if err != nil {
		return err
	}
	if _, err := v.ChangePassword(ctx, unlocked, newPassword); err != nil {
		return err
	}
	fmt.Println("password changed")
	return nil
}

func cmdDeleteAccount(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("delete-account", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	fs.Parse(args)
	if *user == "" {
		return fmt.Errorf("-user is required")
	}
	if err := v.DeleteAccount(ctx, *user); err != nil {
		return err
	}
	fmt.Printf("account %q deleted\n", *user)
	return nil
}

func unlockFromStdin(ctx context.Context, v *vault.Vault, user string) (*entity.UnlockedAccount, error) {
	password, err := readPassword("password: ")
	if err != nil {
		return nil, err
	}
	return v.Unlock(ctx, user, password)
}

func cmdAddCredential(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("add-credential", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	name := fs.String("name", "", "credential name")
	fs.Parse(args)
	if *user == "" || *name == "" {
		return fmt.Errorf("-user and -name are required")
	}
	unlocked, err := unlockFromStdin(ctx, v, *user)
	if err != nil {
		return err
	}
	username, err := readLine("credential username: ")
	if err != nil {
		return err
	}
	credPassword, err := readPassword("credential password: ")
	if err != nil {
		return err
	}
	notes, err := readLine("notes (optional): ")
	if err != nil {
		return err
	}
	plaintext := vault.CredentialPlaintext{
		Name:     *name,
		Username: username,
		Password: credPassword,
		Notes:    notes,
	}
	if _, err := v.CreateCredential(ctx, unlocked, plaintext); err != nil {
		return err
	}
	fmt.Printf("credential %q created\n", *name)
	return nil
}

func cmdListCredentials(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("list-credentials", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	fs.Parse(args)
	if *user == "" {
		return fmt.Errorf("-user is required")
	}
	creds, err := v.ListCredentials(ctx, *user)
	if err != nil {
		return err
	}
	fmt.Printf("%d credential(s)\n", len(creds))
	return nil
}

func cmdShowCredential(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("show-credential", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	name := fs.String("name", "", "credential name")
	fs.Parse(args)
	if *user == "" || *name == "" {
		return fmt.Errorf("-user and -name are required")
	}
	unlocked, err := unlockFromStdin(ctx, v, *user)
	if err != nil {
		return err
	}
	_, plaintext, err := v.LoadCredential(ctx, unlocked, *name)
	if err != nil {
		return err
	}
	fmt.Printf("name: %s\nusername: %s\npassword: %s\nnotes: %s\n",
		plaintext.Name, plaintext.Username, plaintext.Password, plaintext.Notes)
	return nil
}

func cmdEditCredential(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("edit-credential", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	name := fs.String("name", "", "credential name")
	field := fs.String("field", "", "username|password|notes|name")
	fs.Parse(args)
	if *user == "" || *name == "" {
		return fmt.Errorf("-user and -name are required")
	}
	credField, err := parseCredentialField(*field)
	if err != nil {
		return err
	}
	unlocked, err := unlockFromStdin(ctx, v, *user)
	if err != nil {
		return err
	}
	_, current, err := v.LoadCredential(ctx, unlocked, *name)
	if err != nil {
		return err
	}
	currentValue := credentialFieldValue(current, credField)
	edited, err := editor.EditString(os.TempDir(), currentValue)
	if err != nil {
		return err
	}
	if err := v.UpdateCredential(ctx, unlocked, *name, credField, edited); err != nil {
		return err
	}
	fmt.Printf("credential %q updated\n", *name)
	return nil
}

func cmdDeleteCredential(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("delete-credential", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	name := fs.String("name", "", "credential name")
	fs.Parse(args)
	if *user == "" || *name == "" {
		return fmt.Errorf("-user and -name are required")
	}
	unlocked, err := unlockFromStdin(ctx, v, *user)
	if err != nil {
		return err
	}
	if err := v.DeleteCredential(ctx, unlocked, *name); err != nil {
		return err
	}
	fmt.Printf("credential %q deleted\n", *name)
	return nil
}

func cmdAddFile(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("add-file", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	file := fs.String("file", "", "local file path to import")
	fs.Parse(args)
	if *user == "" || *file == "" {
		return fmt.Errorf("-user and -file are required")
	}
	unlocked, err := unlockFromStdin(ctx, v, *user)
	if err != nil {
		return err
	}
	contents, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("reading %q: %w", *file, err)
	}
	if _, err := v.CreateFile(ctx, unlocked, filenameOf(*file), contents); err != nil {
		return err
	}
	fmt.Printf("file %q imported\n", *file)
	return nil
}

func cmdListFiles(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("list-files", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	fs.Parse(args)
	if *user == "" {
		return fmt.Errorf("-user is required")
	}
	files, err := v.ListFiles(ctx, *user)
	if err != nil {
		return err
	}
	fmt.Printf("%d file(s)\n", len(files))
	return nil
}

func cmdEditFile(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("edit-file", flag.ExitOnError)
	user := fs.String("user", "", "account username")
	path := fs.String("file", "", "vault-internal file path, from list-files")
	fs.Parse(args)
	if *user == "" || *path == "" {
		return fmt.Errorf("-user and -file are required")
	}
	unlocked, err := unlockFromStdin(ctx, v, *user)
	if err != nil {
		return err
	}
	contents, err := v.LoadFile(ctx, unlocked, *path)
	if err != nil {
		return err
	}
	edited, err := editor.EditBytes(os.TempDir(), contents)
	if err != nil {
		return err
	}
	if err := v.UpdateFile(ctx, unlocked, *path, edited); err != nil {
		return err
	}
	fmt.Printf("file %q updated\n", *path)
	return nil
}

func cmdDeleteFile(ctx context.Context, v *vault.Vault, args []string) error {
	fs := flag.NewFlagSet("delete-file", flag.ExitOnError)
	path := fs.String("path", "", "vault-internal file path, from list-files")
	fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("-path is required")
	}
	if err := v.DeleteFile(ctx, *path); err != nil {
		return err
	}
	fmt.Printf("file %q deleted\n", *path)
	return nil
}

func parseCredentialField(s string) (vault.CredentialField, error) {
	switch s {
	case "username":
		return vault.CredentialFieldUsername, nil
	case "password":
		return vault.CredentialFieldPassword, nil
	case "notes":
		return vault.CredentialFieldNotes, nil
	case "name":
		return vault.CredentialFieldName, nil
	default:
		return 0, fmt.Errorf("-field must be one of username|password|notes|name, got %q", s)
	}
}

func credentialFieldValue(c vault.CredentialPlaintext, field vault.CredentialField) string {
	switch field {
	case vault.CredentialFieldUsername:
		return c.Username
	case vault.CredentialFieldPassword:
		return c.Password
	case vault.CredentialFieldNotes:
		return c.Notes
	case vault.CredentialFieldName:
		return c.Name
	default:
		return ""
	}
}

func filenameOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
