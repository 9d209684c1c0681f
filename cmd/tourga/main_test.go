package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourga/internal/config"
)

const testCatalog = `
destinations: [{name: A}, {name: B}, {name: C}, {name: D}]
symmetric: true
distances:
  - {from: A, to: B, distance: 1}
  - {from: B, to: C, distance: 2}
  - {from: C, to: D, distance: 3}
  - {from: D, to: A, distance: 4}
  - {from: A, to: C, distance: 5}
  - {from: B, to: D, distance: 6}
`

func setupWorkspace(t *testing.T) string {
	t.Helper()
	for _, key := range []string{config.EnvSeed, config.EnvCatalog, config.EnvSwapBias, config.EnvLogLevel} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	catPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catPath, []byte(testCatalog), 0644))

	cfg := fmt.Sprintf(`
seed: 5
catalog:
  path: %s
ga:
  steps: 4
logging:
  level: error
  csv_path: %s
  json_path: %s
`, catPath, filepath.Join(dir, "runs", "routes.csv"), filepath.Join(dir, "runs", "routes.jsonl"))

	cfgPath := filepath.Join(dir, "tourga.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := run(t, "--config", cfgPath, "eval", "A", "B", "C", "D")
	require.NoError(t, err)
	assert.Equal(t, "Route: A B C D (A) - total distance of 10\n", out)

	_, err = run(t, "--config", cfgPath, "eval", "A", "Z")
	assert.Error(t, err)
}

func TestCrossCommand_FixedMidpoint(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := run(t, "--config", cfgPath, "cross", "--p1", "A,B,C,D", "--p2", "D,C,B,A", "--midpoint", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "Child: A B D C (A)"), lines[2])

	_, err = run(t, "--config", cfgPath, "cross", "--p1", "A,B,C", "--p2", "D,C,B,A")
	assert.Error(t, err)
}

func TestMutateCommand_Deterministic(t *testing.T) {
	cfgPath := setupWorkspace(t)

	first, err := run(t, "--config", cfgPath, "mutate")
	require.NoError(t, err)
	second, err := run(t, "--config", cfgPath, "mutate")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, strings.Split(strings.TrimSpace(first), "\n"), 5)

	third, err := run(t, "--config", cfgPath, "--seed", "6", "mutate", "--steps", "2")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(third), "\n"), 3)
}

func TestShuffleCommand(t *testing.T) {
	cfgPath := setupWorkspace(t)

	out, err := run(t, "--config", cfgPath, "--no-oplog", "shuffle", "-n", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines[:3] {
		assert.Contains(t, line, "total distance of")
	}
	assert.True(t, strings.HasPrefix(lines[3], "3 routes: mean"), lines[3])
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, parseOrder("A, B,C"))
	assert.Empty(t, parseOrder(""))
	assert.Empty(t, parseOrder(" , "))
}
