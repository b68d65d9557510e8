package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		envFile string
		runTUI  bool
	}{
		{name: "no args", args: []string{"psi-sampler"}, runTUI: true},
		{name: "env equals only", args: []string{"psi-sampler", "--env=prod.env"}, envFile: "prod.env", runTUI: true},
		{name: "env value only", args: []string{"psi-sampler", "--env", "prod.env"}, envFile: "prod.env", runTUI: true},
		{name: "subcommand", args: []string{"psi-sampler", "pages"}},
		{name: "subcommand with flag", args: []string{"psi-sampler", "run", "-n", "3"}},
		{name: "subcommand with env", args: []string{"psi-sampler", "run", "--env", "ci.env"}, envFile: "ci.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile, runTUI := parseArgs(tt.args)
			assert.Equal(t, tt.envFile, envFile)
			assert.Equal(t, tt.runTUI, runTUI)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PSI_SAMPLER_TEST_VALUE=loaded\n"), 0o600))
	t.Setenv("PSI_SAMPLER_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("PSI_SAMPLER_TEST_VALUE"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("PSI_SAMPLER_TEST_VALUE"))

	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
