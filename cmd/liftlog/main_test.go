package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/liftlog/internal/config"
	"github.com/verte-zerg/liftlog/internal/store"
)

// testEnv isolates XDG paths and environment overrides and returns a db path.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv(config.EnvDBPath, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFile, "")
	t.Cleanup(func() {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	})
	return filepath.Join(dir, "liftlog.db")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	require.NoError(t, err, out)
	return out
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLogHistoryAndOverview(t *testing.T) {
	db := testEnv(t)

	out := mustRun(t, "--db", db, "log", "Squat", "--weight", "60", "--reps", "12", "--at", "2024-04-15 18:00")
	assert.Equal(t, "Logged set #1: Squat 60 x 12 Work\n", out)
	mustRun(t, "--db", db, "log", "Squat", "--weight", "62.5", "--reps", "8", "--type", "warm", "--at", "2024-04-15 18:03")

	out = mustRun(t, "--db", db, "history", "Squat")
	assert.True(t, strings.HasPrefix(out, "2024-04-15\n"), out)
	assert.Contains(t, out, "+3:00")
	assert.Contains(t, out, "Warm")

	out = mustRun(t, "--db", db)
	assert.Contains(t, out, "Squat")
	assert.Contains(t, out, "2024-04-15")
	assert.Contains(t, out, "62.5 x 8")
}

func TestLogRequiresWeightAndReps(t *testing.T) {
	db := testEnv(t)
	_, err := runCLI(t, "--db", db, "log", "Squat", "--weight", "60")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--weight and --reps")

	_, err = runCLI(t, "--db", db, "log", "Squat", "--weight", "60", "--reps", "5", "--type", "heavy")
	assert.Error(t, err)

	_, err = runCLI(t, "--db", db, "log", "Squat", "--weight", "60", "--reps", "5", "--at", "yesterday")
	assert.Error(t, err)
}

func TestHistoryUnknownExercise(t *testing.T) {
	db := testEnv(t)
	_, err := runCLI(t, "--db", db, "history", "Nope")
	assert.ErrorIs(t, err, store.ErrExerciseNotFound)
}

func TestDelete(t *testing.T) {
	db := testEnv(t)
	mustRun(t, "--db", db, "log", "Squat", "--weight", "60", "--reps", "12")
	mustRun(t, "--db", db, "log", "Squat", "--weight", "65", "--reps", "10")

	out := mustRun(t, "--db", db, "delete", "#1")
	assert.Equal(t, "Deleted set #1\n", out)

	out, err := runCLI(t, "--db", db, "delete", "1", "2")
	assert.ErrorIs(t, err, store.ErrSetNotFound)
	assert.Contains(t, out, "Deleted set #2")

	_, err = runCLI(t, "--db", db, "delete", "abc")
	assert.Error(t, err)
}

func TestSetupAndShow(t *testing.T) {
	db := testEnv(t)
	out := mustRun(t, "--db", db, "setup", "Bench",
		"--type", "dumbbell", "--rep-base", "6", "--rep-max", "10", "--increment", "2.5",
		"--muscle", "pecs", "--muscle", "Triceps=0.5")
	assert.Contains(t, out, "Type:      Dumbbell")
	assert.Contains(t, out, "Reps:      6-10")
	assert.Contains(t, out, "Increment: 2.5")
	assert.Contains(t, out, "Pecs 100%, Triceps 50%")

	_, err := runCLI(t, "--db", db, "setup", "Bench", "--rep-max", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rep scheme")

	out = mustRun(t, "--db", db, "setup", "Bench", "--muscle", "triceps=0", "--muscle", "delts=0.5")
	assert.Contains(t, out, "Pecs 100%, Delts 50%")

	out = mustRun(t, "--db", db, "setup", "Bench", "--clear-muscles")
	assert.Contains(t, out, "Muscles:   -")

	out = mustRun(t, "--db", db, "show", "Bench")
	assert.Contains(t, out, "Reps:      6-10")

	_, err = runCLI(t, "--db", db, "show", "Nope")
	assert.ErrorIs(t, err, store.ErrExerciseNotFound)

	_, err = runCLI(t, "--db", db, "setup", "Bench", "--muscle", "wings")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	db := testEnv(t)
	mustRun(t, "--db", db, "log", "Squat", "--weight", "60", "--reps", "12", "--at", "2024-04-08 18:00")
	mustRun(t, "--db", db, "log", "Squat", "--weight", "65", "--reps", "10", "--at", "2024-04-15 18:00")

	out := mustRun(t, "--db", db, "report", "Squat")
	assert.Contains(t, out, "Summary: Squat")
	assert.Contains(t, out, "Sessions: 2")
	assert.Contains(t, out, "Weekly scores (first)")
	assert.Contains(t, out, "2024-W16")

	out = mustRun(t, "--db", db, "report", "Squat", "--week-mode", "mean")
	assert.Contains(t, out, "Weekly scores (mean)")

	_, err := runCLI(t, "--db", db, "report", "Squat", "--week-mode", "last")
	assert.Error(t, err)
}

func TestMuscles(t *testing.T) {
	db := testEnv(t)
	mustRun(t, "--db", db, "setup", "Bench", "--muscle", "pecs")
	mustRun(t, "--db", db, "log", "Bench", "--weight", "60", "--reps", "10")

	out := mustRun(t, "--db", db, "muscles", "--days", "7")
	assert.Contains(t, out, "last 7 days")
	assert.Contains(t, out, "Pecs")
	assert.Contains(t, out, "Most trained: Bench (1)")

	out = mustRun(t, "--db", db, "muscles", "--top", "2")
	assert.NotContains(t, out, "Pecs")

	_, err := runCLI(t, "--db", db, "muscles", "--days", "0")
	assert.Error(t, err)
}

func TestPlates(t *testing.T) {
	testEnv(t)
	out := mustRun(t, "plates", "100", "--plates", "20,20,10,5")
	assert.Contains(t, out, "Per side: 20 + 20")
	assert.Contains(t, out, "Total:    100")
	assert.NotContains(t, out, "cannot be loaded")

	out = mustRun(t, "plates", "101", "--plates", "20,20,10,5")
	assert.Contains(t, out, "101 cannot be loaded exactly; closest is 100.")

	out = mustRun(t, "plates", "15", "--bar", "15")
	assert.Contains(t, out, "Per side: nothing")

	_, err := runCLI(t, "plates", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lighter than the 20 bar")
}

func TestConfigPrecedence(t *testing.T) {
	db := testEnv(t)
	fileDB := filepath.Join(t.TempDir(), "file.db")
	writeConfig(t, "[storage]\ndb-path = \""+fileDB+"\"\n\n[exercise]\nrep-base = 8\nrep-max = 12\nincrement = 2.5\n")

	mustRun(t, "log", "Row", "--weight", "50", "--reps", "8")
	assert.FileExists(t, fileDB)
	out := mustRun(t, "show", "Row")
	assert.Contains(t, out, "Reps:      8-12")

	envDB := filepath.Join(t.TempDir(), "env.db")
	t.Setenv(config.EnvDBPath, envDB)
	mustRun(t, "log", "Row", "--weight", "50", "--reps", "8")
	assert.FileExists(t, envDB)

	mustRun(t, "--db", db, "log", "Row", "--weight", "50", "--reps", "8")
	assert.FileExists(t, db)
}

func TestInvalidConfig(t *testing.T) {
	db := testEnv(t)
	writeConfig(t, "[stats]\nweek-mode = \"last\"\n")
	_, err := runCLI(t, "--db", db)
	assert.Error(t, err)

	writeConfig(t, "[exercise]\nrep-base = 10\nrep-max = 10\n")
	_, err = runCLI(t, "--db", db)
	assert.Error(t, err)
}

func TestEnsureConfigFile(t *testing.T) {
	testEnv(t)
	path := config.DefaultConfigPath()
	require.NoError(t, ensureConfigFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Template, string(data))

	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))
	require.NoError(t, ensureConfigFile(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))
}
