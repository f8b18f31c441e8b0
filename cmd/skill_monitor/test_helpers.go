package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// getBinaryPath returns the path to the skill_monitor binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "skill_monitor"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// isolatedEnv returns the current environment without backend settings, with users stored under usersDir
func isolatedEnv(usersDir string) []string {
	blocked := []string{"DATABASE_URL=", "REDIS_ADDR=", "JWT_SECRET=", "SKILLMON_"}
	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		keep := true
		for _, prefix := range blocked {
			if strings.HasPrefix(e, prefix) {
				keep = false
				break
			}
		}
		if keep {
			env = append(env, e)
		}
	}
	return append(env, "SKILLMON_USERS_DIR="+usersDir)
}
