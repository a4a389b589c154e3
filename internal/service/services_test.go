package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xolan/chronos/internal/config"
	"github.com/xolan/chronos/internal/reconcile"
	"github.com/xolan/chronos/internal/storage"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestServices(t *testing.T, cfg config.Config, now time.Time) *Services {
	t.Helper()
	tmpDir := t.TempDir()
	cfg.Timezone = "UTC"
	svc, err := NewServicesWithPaths(context.Background(),
		filepath.Join(tmpDir, "chronos.db"),
		filepath.Join(tmpDir, "config.toml"),
		cfg, WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("NewServicesWithPaths() failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestNewServicesWithPaths(t *testing.T) {
	svc := newTestServices(t, config.DefaultConfig(), time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	if svc.Store == nil {
		t.Error("expected non-nil Store")
	}
	if svc.Session == nil {
		t.Error("expected non-nil Session engine")
	}
	if svc.Query == nil {
		t.Error("expected non-nil Query facade")
	}
	if svc.Drinks == nil {
		t.Error("expected non-nil Drinks service")
	}
	if svc.Config == nil {
		t.Error("expected non-nil Config service")
	}
	if svc.Recovered != nil {
		t.Errorf("expected nothing recovered from an empty database, got %+v", svc.Recovered)
	}
	if svc.Location.String() != "UTC" {
		t.Errorf("expected UTC location, got %s", svc.Location)
	}
}

func TestNewServicesWithPaths_InvalidStorage(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := NewServicesWithPaths(context.Background(),
		filepath.Join(tmpDir, "missing", "dir", "chronos.db"),
		filepath.Join(tmpDir, "config.toml"),
		config.DefaultConfig())
	if err == nil {
		t.Fatal("expected error for a database in a missing directory")
	}
}

func TestNewServicesWithPaths_RecoversOpenEntry(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "chronos.db")
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	first, err := NewServicesWithPaths(ctx, dbPath, filepath.Join(tmpDir, "config.toml"), cfg, WithClock(fixedClock(now)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Session.StartNow(ctx, "email"); err != nil {
		t.Fatal(err)
	}
	_ = first.Close()

	second, err := NewServicesWithPaths(ctx, dbPath, filepath.Join(tmpDir, "config.toml"), cfg, WithClock(fixedClock(now.Add(time.Hour))))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = second.Close() }()

	if second.Recovered == nil || second.Recovered.Label != "email" {
		t.Fatalf("expected the open entry to be recovered, got %+v", second.Recovered)
	}

	stopped, err := second.Session.StopNow(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stopped == nil || *stopped.TimeEnd != "10:00" {
		t.Errorf("expected recovered entry to be stopped at 10:00, got %+v", stopped)
	}
}

func TestServices_Reset(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, config.DefaultConfig(), time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	if _, err := svc.Session.StartNow(ctx, "email"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Reset(ctx, svc.Session); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if svc.Session.State().Active() {
		t.Error("expected the session to be idle after reset")
	}

	tr, err := svc.Session.StartNow(ctx, "coding")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Started.ID != 1 {
		t.Errorf("expected ids to restart at 1, got %d", tr.Started.ID)
	}

	backups, err := storage.ListBackups(svc.Store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("expected one backup, got %d", len(backups))
	}
}

func TestServices_LoopAndReconciler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := newTestServices(t, config.DefaultConfig(), time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	loop := svc.NewLoop()
	go func() { _ = loop.Run(ctx) }()

	if _, err := loop.StartNow(ctx, "email"); err != nil {
		t.Fatal(err)
	}

	report, err := svc.Reconciler(loop).Reconcile(ctx, "2024-01-15", reconcile.PrompterFunc(func(context.Context, reconcile.Prompt) (string, error) {
		return "", errors.New("no terminal")
	}))
	if err == nil {
		t.Fatal("expected the prompter error to surface")
	}
	if report.Stopped == nil {
		t.Error("expected the loop to stop the open entry first")
	}
}
