package main

import (
	"bytes"
	"strings"
	"testing"
)

type cliTestEnv struct {
	home string
	dir  string
}

// setupCLITestEnv isolates HOME and moves into a fresh project directory.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	env := &cliTestEnv{home: t.TempDir(), dir: t.TempDir()}
	t.Setenv("HOME", env.home)
	t.Setenv(envConfigPath, "")
	t.Chdir(env.dir)
	return env
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
