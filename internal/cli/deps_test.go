package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xolan/chronos/internal/config"
	"github.com/xolan/chronos/internal/service"
)

func newServices(t *testing.T) *service.Services {
	t.Helper()
	tmpDir := t.TempDir()
	services, err := service.NewServicesWithPaths(context.Background(),
		filepath.Join(tmpDir, "chronos.db"),
		filepath.Join(tmpDir, "config.toml"),
		config.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create services: %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })
	return services
}

func TestNewDeps(t *testing.T) {
	services := newServices(t)

	deps := NewDeps(services)
	if deps == nil {
		t.Fatal("expected non-nil deps")
	}
	if deps.Services != services {
		t.Error("expected services to match")
	}
	if deps.Stdout == nil {
		t.Error("expected non-nil Stdout")
	}
	if deps.Stderr == nil {
		t.Error("expected non-nil Stderr")
	}
	if deps.In == nil {
		t.Error("expected non-nil In")
	}
	if deps.Exit == nil {
		t.Error("expected non-nil Exit")
	}
	if deps.Session != services.Session {
		t.Error("expected the session engine to drive one-shot commands")
	}
}

func TestWithSession(t *testing.T) {
	services := newServices(t)
	deps := NewDeps(services)

	loop := services.NewLoop()
	withLoop := deps.WithSession(loop)

	if withLoop.Session != loop {
		t.Error("expected the loop to drive the copy")
	}
	if deps.Session != services.Session {
		t.Error("WithSession must not modify the original deps")
	}
	if withLoop.Services != services {
		t.Error("expected services to be shared")
	}
}
