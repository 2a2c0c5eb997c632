// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "path/filepath"

// databaseFileName is the fixed leaf name of the metadata database inside
// the data directory, grounded on the original `dgruft.db` constant in
// utils.rs's DB_NAME.
const databaseFileName = "vault.db"

// StructuredConfig is the top-level configuration container for the
// vaultkeeper CLI. It is populated by merging values from environment
// variables and an optional JSON file.
//
// Struct tags:
//   - env — direct environment variable name for a scalar field
//     (caarlos0/env).
type StructuredConfig struct {
	// DataDir is the directory holding the metadata database and every
	// account's file blobs. Overridden by VAULTKEEPER_DATA (spec.md §6).
	DataDir string `env:"VAULTKEEPER_DATA"`

	// ConfigDir is the directory holding the Vault's own configuration.
	// Overridden by VAULTKEEPER_CONFIG (spec.md §6). Not consumed by
	// internal/vault itself — reserved for the CLI layer.
	ConfigDir string `env:"VAULTKEEPER_CONFIG"`

	// JSONFilePath is the optional path to a JSON configuration file. When
	// non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables.
	JSONFilePath string `env:"VAULTKEEPER_CONFIG_FILE"`
}

// DatabasePath returns the path of the metadata database file inside
// DataDir.
func (cfg *StructuredConfig) DatabasePath() string {
	return filepath.Join(cfg.DataDir, databaseFileName)
}

// GetStructuredConfig loads and merges the CLI configuration from all
// available sources in the following priority order (last source wins for
// non-zero fields):
//  1. Environment variables
//  2. JSON file (path resolved from source 1)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withJSON().
		build()
}
