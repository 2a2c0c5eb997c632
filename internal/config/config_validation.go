// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// CLI invariants before it is used at startup.
//
// Currently a no-op: an empty DataDir is not itself invalid configuration
// here, since the CLI rejects an empty DataDir before calling
// internal/vault.Open, and it is Open's own precondition check (spec.md
// §4.6.5) that rejects a data directory that does not exist.
func (cfg *StructuredConfig) validate() error {
	return nil
}
