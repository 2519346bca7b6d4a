package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/store"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/verify"
)

// neverZero claims every n is composite; primes become counterexamples.
const neverZeroSpec = `
detector: {
	name: "never-zero"
	terms: [{stat: 1, coeffs: {"0": 1}}]
}
`

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVerifyQuarticPasses(t *testing.T) {
	out, err := runRoot(t, "verify", "--min", "2", "--max", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "Detector verification: quartic")
	assert.Contains(t, out, "Mismatches: 0")
	assert.Contains(t, out, "Result: PASS")
}

func TestVerifyBinomialCubic(t *testing.T) {
	out, err := runRoot(t, "verify", "--detector", "binomial-cubic", "--min", "2", "--max", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "Detector verification: binomial-cubic")
	assert.Contains(t, out, "Result: PASS")
}

func TestVerifyJSONOutput(t *testing.T) {
	out, err := runRoot(t, "--format", "json", "verify", "--min", "2", "--max", "40")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report verify.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "quartic", report.Detector)
	assert.Equal(t, 39, report.Total)
	assert.Empty(t, report.Mismatches)
}

func TestVerifyCounterexamplesFailWithExitCode(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "never.cue")
	require.NoError(t, os.WriteFile(specPath, []byte(neverZeroSpec), 0644))

	out, err := runRoot(t, "verify", "--detector-spec", specPath, "--min", "2", "--max", "12")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Result: FAIL")
	assert.Contains(t, out, "Counterexamples:")
	// Primes in 2..12 are the counterexamples for a never-vanishing detector.
	assert.Contains(t, out, "n = 2, prime = true")
	assert.Contains(t, out, "n = 11, prime = true")
}

func TestVerifyUnknownDetector(t *testing.T) {
	out, err := runRoot(t, "verify", "--detector", "quintic")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "UNKNOWN_DETECTOR")
}

func TestVerifyInvalidRange(t *testing.T) {
	out, err := runRoot(t, "verify", "--min", "100", "--max", "10")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "INVALID_RANGE")
}

func TestVerifyBadSpec(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(specPath, []byte(`detector: {name: "x"}`), 0644))

	out, err := runRoot(t, "verify", "--detector-spec", specPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "COMPILE_FAILED")
}

func TestVerifyWithConfigProfile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.yaml")
	cfg := "detector: binomial-cubic\nrange:\n  min: 2\n  max: 30\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	out, err := runRoot(t, "verify", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Detector verification: binomial-cubic")
	assert.Contains(t, out, "Range: 2..30")
}

func TestVerifyFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.yaml")
	cfg := "detector: binomial-cubic\nrange:\n  min: 2\n  max: 500\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	out, err := runRoot(t, "verify", "--config", cfgPath, "--max", "25", "--detector", "quartic")
	require.NoError(t, err)
	assert.Contains(t, out, "Detector verification: quartic")
	assert.Contains(t, out, "Range: 2..25")
}

func TestVerifyConfigNotFound(t *testing.T) {
	out, err := runRoot(t, "verify", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "CONFIG_ERROR")
}

func TestVerifyMinNRaisesFloor(t *testing.T) {
	out, err := runRoot(t, "verify", "--min", "2", "--max", "30", "--min-n", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Range: 10..30")
}

func TestVerifyPersistsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := runRoot(t, "verify", "--min", "2", "--max", "20", "--store", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run: ")
	assert.Contains(t, out, "Result: PASS")

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "quartic", runs[0].Detector)
	assert.True(t, runs[0].Finalized)
	assert.Equal(t, 19, runs[0].Total)
	assert.Zero(t, runs[0].Mismatches)

	records, err := db.ReadRecords(context.Background(), runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, records, 19)
}

func TestVerifyParallelWorkers(t *testing.T) {
	out, err := runRoot(t, "verify", "--min", "2", "--max", "80", "--workers", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Result: PASS")
	assert.Contains(t, out, "Range: 2..80 (79 checked)")
}
