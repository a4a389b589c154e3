package handlers

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/config"
	"github.com/xolan/chronos/internal/service"
)

// testNow is the fixed clock of every handler test: Monday 2024-01-15 10:00 UTC.
var testNow = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

const testToday = "2024-01-15"

func setupTestDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	return setupTestDepsWith(t, config.DefaultConfig(), "")
}

func setupTestDepsWithInput(t *testing.T, input string) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	return setupTestDepsWith(t, config.DefaultConfig(), input)
}

func setupTestDepsWith(t *testing.T, cfg config.Config, input string) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	tmpDir := t.TempDir()
	cfg.Timezone = "UTC"

	services, err := service.NewServicesWithPaths(context.Background(),
		filepath.Join(tmpDir, "chronos.db"),
		filepath.Join(tmpDir, "config.toml"),
		cfg,
		service.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("failed to create services: %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })

	return newDeps(services, input)
}

// setupBrokenConfigDeps creates deps whose config file cannot be written:
// its parent directory is a regular file.
func setupBrokenConfigDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"

	services, err := service.NewServicesWithPaths(context.Background(),
		filepath.Join(tmpDir, "chronos.db"),
		filepath.Join(blocker, "config.toml"),
		cfg,
		service.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("failed to create services: %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })

	return newDeps(services, "")
}

// setupClosedStoreDeps creates deps whose database is already closed, so
// every storage call fails.
func setupClosedStoreDeps(t *testing.T) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	t.Helper()
	deps, stdout, stderr, exitCode := setupTestDeps(t)
	if err := deps.Services.Store.Close(); err != nil {
		t.Fatal(err)
	}
	return deps, stdout, stderr, exitCode
}

func newDeps(services *service.Services, input string) (*cli.Deps, *bytes.Buffer, *bytes.Buffer, *int) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	exitCode := 0

	deps := &cli.Deps{
		Stdout:   stdout,
		Stderr:   stderr,
		In:       bufio.NewReader(strings.NewReader(input)),
		Exit:     func(code int) { exitCode = code },
		Services: services,
		Session:  services.Session,
	}

	return deps, stdout, stderr, &exitCode
}
