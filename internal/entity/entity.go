// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package entity defines the Vault's value objects: Account, Credential,
// and FileData, along with the Hashed and Encrypted shapes they're built
// from. All types here are immutable; mutation always produces a new
// value. None of them know how to persist themselves — that is the
// store's job.
package entity

// Hashed is the output of a PBKDF2 derivation: a 32-byte hash together with
// the 64-byte salt it was derived with. Used for the account's double-hash
// password record.
type Hashed struct {
	Hash [32]byte
	Salt [64]byte
}

// Encrypted is an AEAD-sealed value: variable-length cipherbytes (the GCM
// authentication tag is part of Cipherbytes) together with the 12-byte
// nonce used to seal it.
type Encrypted struct {
	Cipherbytes []byte
	Nonce       [12]byte
}

// Account is the sealed, storable form of one user record. It carries no
// plaintext: not the password, not the data-encryption key. See
// [UnlockedAccount] for the session view.
type Account struct {
	// Username is the account's primary key. Non-empty, globally unique.
	Username string

	// PasswordSalt is the 64 random bytes mixed into H1 = PBKDF2(password).
	PasswordSalt [64]byte

	// DblHashedPassword is H2 = PBKDF2(H1.hash), stored to authenticate a
	// login attempt without ever persisting H1 or the password itself.
	DblHashedPassword Hashed

	// EncryptedKey is the account's 32-byte data-encryption key, sealed
	// under H1.hash. Unwrapping it requires a correct password.
	EncryptedKey Encrypted
}

// UnlockedAccount is the session view of an authenticated account: it adds
// the plaintext data-encryption key to the sealed fields. It exists only
// in process memory for the lifetime of a session and must never be
// serialised or persisted.
type UnlockedAccount struct {
	Account

	// Key is the plaintext 32-byte data-encryption key, recovered by
	// unwrapping EncryptedKey during a successful unlock.
	Key [32]byte
}

// Credential is one stored login. Every field except OwnerUsername is
// independently AEAD-sealed under the owner's data-encryption key, each
// with its own fresh nonce.
type Credential struct {
	// OwnerUsername is the foreign key to the owning Account.
	OwnerUsername string

	// Name, Username, Password, and Notes are sealed independently; a
	// re-encryption of the same plaintext yields different Cipherbytes
	// because the nonce is fresh each time.
	Name     Encrypted
	Username Encrypted
	Password Encrypted
	Notes    Encrypted
}

// FileData is the metadata row for one encrypted file. The ciphertext blob
// itself lives on the filesystem at Path; only its nonce is stored here.
type FileData struct {
	// Path is the absolute UTF-8 path of the ciphertext blob on disk, and
	// the primary key of this entity.
	Path string

	// Filename is the user-visible leaf name, unique within
	// (OwnerUsername, Filename) through the path construction rule.
	Filename string

	// OwnerUsername is the foreign key to the owning Account.
	OwnerUsername string

	// ContentsNonce is the AEAD nonce used for the blob currently on disk
	// at Path.
	ContentsNonce [12]byte
}
