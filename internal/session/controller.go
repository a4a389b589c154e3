package session

import (
	"context"
	"time"

	"github.com/xolan/chronos/internal/entry"
)

// Controller is implemented by both Engine (single caller) and Loop
// (many callers, one goroutine).
type Controller interface {
	Start(ctx context.Context, at time.Time, label string) (Transition, error)
	StartNow(ctx context.Context, label string) (Transition, error)
	Stop(ctx context.Context, at time.Time) (*entry.TimeEntry, error)
	StopNow(ctx context.Context) (*entry.TimeEntry, error)
	Retro(ctx context.Context, minutesAgo int, label string) (Transition, error)
	Do(ctx context.Context, fn func(ctx context.Context, e *Engine) error) error
}

var (
	_ Controller = (*Engine)(nil)
	_ Controller = (*Loop)(nil)
)
