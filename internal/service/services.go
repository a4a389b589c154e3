// Package service wires the storage, session, reconcile and query packages
// into one aggregate shared by the CLI, the interactive shell and the TUI.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/xolan/chronos/internal/config"
	"github.com/xolan/chronos/internal/entry"
	"github.com/xolan/chronos/internal/query"
	"github.com/xolan/chronos/internal/reconcile"
	"github.com/xolan/chronos/internal/session"
	"github.com/xolan/chronos/internal/storage"
)

// Services holds all service instances used by the application
type Services struct {
	Store    *storage.Store
	Session  *session.Engine
	Query    *query.Facade
	Drinks   *DrinkService
	Config   *ConfigService
	Logger   *slog.Logger
	Location *time.Location

	// Recovered is the entry adopted as open at startup, if any.
	Recovered *entry.TimeEntry
}

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures NewServices and NewServicesWithPaths.
type Option func(*options)

// WithClock overrides the clock of every engine.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger overrides the logger built from the config's log_level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewServices creates a new Services instance with default paths
func NewServices(ctx context.Context, opts ...Option) (*Services, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config location: %w", err)
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	storagePath, err := cfg.ResolveDatabasePath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine storage location: %w", err)
	}

	// Diagnostics go to stderr; callers may still override the logger.
	opts = append([]Option{WithLogger(cfg.NewLogger(os.Stderr))}, opts...)
	return NewServicesWithPaths(ctx, storagePath, configPath, cfg, opts...)
}

// NewServicesWithPaths creates a new Services instance with custom paths
// (useful for testing). The store is opened and the open entry left by an
// earlier process is recovered.
func NewServicesWithPaths(ctx context.Context, storagePath, configPath string, cfg config.Config, opts ...Option) (*Services, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = cfg.NewLogger(io.Discard)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(storagePath)
	if err != nil {
		return nil, err
	}

	engine := session.New(store,
		session.WithClock(o.now),
		session.WithLocation(loc),
		session.WithLogger(o.logger.With("component", "session")))

	recovered, err := engine.Recover(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	configService := NewConfigService(configPath, cfg)

	return &Services{
		Store:     store,
		Session:   engine,
		Query:     query.New(store, query.WithClock(o.now), query.WithLocation(loc)),
		Drinks:    NewDrinkService(store, configService, o.now, loc),
		Config:    configService,
		Logger:    o.logger,
		Location:  loc,
		Recovered: recovered,
	}, nil
}

// NewLoop returns a command loop that owns the session engine. Once the
// loop runs, every mutation must go through it.
func (s *Services) NewLoop() *session.Loop {
	return session.NewLoop(s.Session, s.Logger.With("component", "loop"))
}

// Reconciler returns a reconciliation engine that stops the open entry
// through stopper. Pass the engine handed to Controller.Do to keep the
// whole pass serialized with other session commands.
func (s *Services) Reconciler(stopper reconcile.Stopper) *reconcile.Engine {
	return reconcile.New(s.Store, stopper, s.Logger.With("component", "reconcile"))
}

// Reset backs up the database, then deletes every entry and counter. It
// runs through c so that a running loop sees the reset atomically, and the
// engine is returned to idle.
func (s *Services) Reset(ctx context.Context, c session.Controller) error {
	err := c.Do(ctx, func(ctx context.Context, e *session.Engine) error {
		if err := s.Store.Reset(ctx); err != nil {
			return err
		}
		_, err := e.Recover(ctx)
		return err
	})
	if err != nil {
		return err
	}
	s.Recovered = nil
	s.Logger.Info("database reset", "path", s.Store.Path())
	return nil
}

// Close releases the database.
func (s *Services) Close() error {
	return s.Store.Close()
}
