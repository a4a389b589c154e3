package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xolan/chronos/internal/entry"
)

// ErrLoopClosed is returned when a command is submitted to a loop that is
// not running anymore.
var ErrLoopClosed = errors.New("session loop closed")

type commandKind int

const (
	cmdStart commandKind = iota + 1
	cmdStartNow
	cmdStop
	cmdStopNow
	cmdRetro
	cmdState
	cmdDo
)

func (k commandKind) String() string {
	switch k {
	case cmdStart:
		return "start"
	case cmdStartNow:
		return "start-now"
	case cmdStop:
		return "stop"
	case cmdStopNow:
		return "stop-now"
	case cmdRetro:
		return "retro"
	case cmdState:
		return "state"
	case cmdDo:
		return "do"
	default:
		return "unknown"
	}
}

type command struct {
	id      string
	kind    commandKind
	at      time.Time
	label   string
	minutes int
	fn      func(ctx context.Context, e *Engine) error
	reply   chan reply
}

type reply struct {
	transition Transition
	stopped    *entry.TimeEntry
	state      State
	err        error
}

// Loop serializes every engine call through one goroutine. Interactive
// commands and asynchronous triggers (signals, TUI ticks) submit commands
// over a channel instead of touching the engine directly.
//
// Thread-safety model:
//   - Start/Stop/Retro/State: safe from any goroutine
//   - Run: must be called from exactly one goroutine
type Loop struct {
	engine *Engine
	cmds   chan command
	done   chan struct{}
	logger *slog.Logger
}

// NewLoop wraps an engine. The engine must not be used directly while the
// loop runs.
func NewLoop(engine *Engine, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loop{
		engine: engine,
		cmds:   make(chan command),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes commands until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.cmds:
			cmd.reply <- l.handle(ctx, cmd)
		}
	}
}

func (l *Loop) handle(ctx context.Context, cmd command) reply {
	var r reply
	switch cmd.kind {
	case cmdStart:
		r.transition, r.err = l.engine.Start(ctx, cmd.at, cmd.label)
	case cmdStartNow:
		r.transition, r.err = l.engine.StartNow(ctx, cmd.label)
	case cmdStop:
		r.stopped, r.err = l.engine.Stop(ctx, cmd.at)
	case cmdStopNow:
		r.stopped, r.err = l.engine.StopNow(ctx)
	case cmdRetro:
		r.transition, r.err = l.engine.Retro(ctx, cmd.minutes, cmd.label)
	case cmdState:
		r.state = l.engine.State()
	case cmdDo:
		r.err = cmd.fn(ctx, l.engine)
	}
	if r.err != nil {
		l.logger.Warn("session command failed", "command", cmd.kind.String(), "id", cmd.id, "error", r.err)
	} else if cmd.kind != cmdState {
		l.logger.Debug("session command done", "command", cmd.kind.String(), "id", cmd.id)
	}
	return r
}

func (l *Loop) submit(ctx context.Context, cmd command) reply {
	cmd.id = uuid.NewString()
	cmd.reply = make(chan reply, 1)

	select {
	case l.cmds <- cmd:
	case <-l.done:
		return reply{err: ErrLoopClosed}
	case <-ctx.Done():
		return reply{err: ctx.Err()}
	}

	select {
	case r := <-cmd.reply:
		return r
	case <-ctx.Done():
		return reply{err: ctx.Err()}
	}
}

// Start submits a start at the given time.
func (l *Loop) Start(ctx context.Context, at time.Time, label string) (Transition, error) {
	r := l.submit(ctx, command{kind: cmdStart, at: at, label: label})
	return r.transition, r.err
}

// StartNow submits a start stamped when the loop processes it.
func (l *Loop) StartNow(ctx context.Context, label string) (Transition, error) {
	r := l.submit(ctx, command{kind: cmdStartNow, label: label})
	return r.transition, r.err
}

// Stop submits a stop at the given time.
func (l *Loop) Stop(ctx context.Context, at time.Time) (*entry.TimeEntry, error) {
	r := l.submit(ctx, command{kind: cmdStop, at: at})
	return r.stopped, r.err
}

// StopNow submits a stop stamped when the loop processes it.
func (l *Loop) StopNow(ctx context.Context) (*entry.TimeEntry, error) {
	r := l.submit(ctx, command{kind: cmdStopNow})
	return r.stopped, r.err
}

// Retro submits a back-dated start.
func (l *Loop) Retro(ctx context.Context, minutesAgo int, label string) (Transition, error) {
	r := l.submit(ctx, command{kind: cmdRetro, minutes: minutesAgo, label: label})
	return r.transition, r.err
}

// State returns the engine state as seen by the loop goroutine.
func (l *Loop) State(ctx context.Context) (State, error) {
	r := l.submit(ctx, command{kind: cmdState})
	return r.state, r.err
}

// Do runs fn on the loop goroutine with exclusive access to the engine.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context, e *Engine) error) error {
	return l.submit(ctx, command{kind: cmdDo, fn: fn}).err
}
