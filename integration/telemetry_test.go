//go:build basic

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runPatchgate runs an arbitrary subcommand and returns combined output.
func runPatchgate(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getPatchgateBinary(), args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func TestStatusWithSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "telemetry.db")

	out, err := runPatchgate(t, dir, "status", "--db-connect", dbPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Gate runs recorded: 0")
}

func TestMigrateUpAndDownWithSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "telemetry.db")

	out, err := runPatchgate(t, dir, "migrate", "--db-connect", dbPath)
	require.NoError(t, err, out)

	out, err = runPatchgate(t, dir, "migrate", "--db-connect", dbPath, "--target-version", "0")
	require.NoError(t, err, out)
}

func TestGateRecordsAuditRows(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "telemetry.db")
	modelPath := writeModel(t, dir, -4.0)
	featurePath := filepath.Join(dir, "features.csv")
	require.NoError(t, os.WriteFile(featurePath, []byte(featureHeader+
		"fw-1.0.0,0.2,0.5,100,0,0\n"), 0o644))

	code, _ := runGate(t, dir, featurePath, "--model", modelPath, "--db-connect", dbPath)
	require.Equal(t, 0, code)

	out, err := runPatchgate(t, dir, "status", "--db-connect", dbPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Gate runs recorded: 1")
}
