package main

import (
	"testing"
)

func TestRootListsCommands(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	for _, name := range []string{"generate", "runs", "status", "config"} {
		requireContains(t, out, name)
	}
}

func TestRootRejectsInvalidLogLevelOverride(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, []string{"--log-level", "verbose", "status"}, env.configPath)
	if err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}
