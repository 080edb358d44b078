package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	bls "github.com/blessnetwork/bls-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyGuest exports a _start that returns immediately.
var emptyGuest = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "blsdev "+bls.Version)
	assert.Contains(t, out, bls.HostABI)
}

func TestSchema(t *testing.T) {
	t.Run("lists names", func(t *testing.T) {
		out, _, err := execute(t, "schema")
		require.NoError(t, err)
		assert.Contains(t, out, "crawl.scrape_options\n")
		assert.Contains(t, out, "http.options\n")
	})

	t.Run("prints one", func(t *testing.T) {
		out, _, err := execute(t, "schema", "http.options")
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Contains(t, doc["properties"], "connectTimeout")
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := execute(t, "schema", "nope")
		assert.ErrorContains(t, err, `unknown schema "nope"`)
	})
}

func TestRun(t *testing.T) {
	module := writeFile(t, "guest.wasm", emptyGuest)
	fixtures := writeFile(t, "fixtures.yaml", []byte("env:\n  MODE: test\n"))

	out, _, err := execute(t, "run", module, "--fixtures", fixtures, "--json")
	require.NoError(t, err)

	var res struct {
		RunID    string `json:"run_id"`
		ExitCode uint32 `json:"exit_code"`
		Stdout   string `json:"stdout"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.RunID, 26)
	assert.Zero(t, res.ExitCode)
	assert.Empty(t, res.Stdout)
}

func TestRun_Errors(t *testing.T) {
	module := writeFile(t, "guest.wasm", emptyGuest)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing module", []string{"run", filepath.Join(t.TempDir(), "absent.wasm")}, "failed to read module"},
		{"bad env flag", []string{"run", module, "--env", "NOEQUALS"}, "want KEY=VALUE"},
		{"missing fixtures", []string{"run", module, "--fixtures", filepath.Join(t.TempDir(), "absent.yaml")}, "absent.yaml"},
		{"invalid module", []string{"run", writeFile(t, "bad.wasm", []byte("nope"))}, "failed to compile module"},
		{"no args", []string{"run"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestGuestEnv(t *testing.T) {
	envFile := writeFile(t, ".env", []byte("A=from-file\nB=from-file\n"))
	opts := &runOptions{envFile: envFile, env: []string{"B=from-flag", "C=x=y"}}

	env, err := guestEnv(map[string]string{"A": "base", "Z": "base"}, opts)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "from-file", "B": "from-flag", "C": "x=y", "Z": "base"}, env)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 3, exitCode(&guestExitError{code: 3}))
	assert.Equal(t, 3, exitCode(fmt.Errorf("wrapped: %w", &guestExitError{code: 3})))
	assert.Equal(t, 1, exitCode(assert.AnError))
}
