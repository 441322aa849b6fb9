// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// FactorManifest is a manifest with one registered and one unregistered
// implementation of the factor service.
const FactorManifest = `service_name: Shor
description: Integer factorisation
parameters:
  - name: N
    type: integer
implementations:
  - id: trial
    name: Trial division
    fw: Go
  - id: qpu
    name: Remote QPU
`

// WriteFile writes content to name under dir, creating parent directories,
// and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteManifest writes FactorManifest into a fresh temp directory.
func WriteManifest(t testing.TB) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "manifest.yaml", FactorManifest)
}

// Chdir changes the working directory to dir for the duration of the test
// and restores it on cleanup, mirroring testing.T.Chdir from Go 1.24.
func Chdir(t testing.TB, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
