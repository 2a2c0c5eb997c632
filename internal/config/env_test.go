// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	envVars := map[string]string{
		"VAULTKEEPER_DATA":        "/data/vaultkeeper",
		"VAULTKEEPER_CONFIG":      "/etc/vaultkeeper",
		"VAULTKEEPER_CONFIG_FILE": "/etc/vaultkeeper/config.json",
	}
	setEnvVars(t, envVars)

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "/data/vaultkeeper", cfg.DataDir)
	assert.Equal(t, "/etc/vaultkeeper", cfg.ConfigDir)
	assert.Equal(t, "/etc/vaultkeeper/config.json", cfg.JSONFilePath)
}

func TestParseEnv_PartialFields(t *testing.T) {
	envVars := map[string]string{
		"VAULTKEEPER_DATA": "/data/vaultkeeper",
	}
	setEnvVars(t, envVars)

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "/data/vaultkeeper", cfg.DataDir)
	assert.Empty(t, cfg.ConfigDir)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	clearEnvVars(t)

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, StructuredConfig{}, *cfg)
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"VAULTKEEPER_DATA",
		"VAULTKEEPER_CONFIG",
		"VAULTKEEPER_CONFIG_FILE",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
