// Package shell implements the interactive command prompt. Commands typed
// at the prompt and asynchronous triggers (the hotkey signal) both drive the
// session through one Loop, so they never race on the open entry.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/cli/handlers"
	"github.com/xolan/chronos/internal/session"
)

// Prompt is printed before every command.
const Prompt = "Type command: "

// Shell is a line-oriented command loop.
type Shell struct {
	deps         *cli.Deps
	loop         *session.Loop
	triggerLabel string
}

// New creates a Shell. Failures inside a command are reported but never exit
// the process; deps.Exit is not called.
func New(deps *cli.Deps, loop *session.Loop, triggerLabel string) *Shell {
	d := deps.WithSession(loop)
	d.Stdout = &lockedWriter{w: deps.Stdout}
	d.Stderr = &lockedWriter{w: deps.Stderr}
	d.Exit = func(int) {}
	return &Shell{deps: d, loop: loop, triggerLabel: triggerLabel}
}

// Run reads commands until "exit" or end of input. Every value received on
// triggers starts an entry labeled with the trigger label. The running entry
// is stopped before Run returns.
func (s *Shell) Run(ctx context.Context, triggers <-chan struct{}) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.loop.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.watch(ctx, triggers)
	}()
	defer wg.Wait()
	defer cancel()

	for {
		_, _ = fmt.Fprint(s.deps.Stdout, Prompt)
		line, err := s.deps.In.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(line) != "") {
			if errors.Is(err, io.EOF) {
				_, _ = fmt.Fprintln(s.deps.Stdout)
				s.exit(ctx)
				return nil
			}
			return err
		}

		if done := s.Execute(ctx, line); done {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Shell) watch(ctx context.Context, triggers <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-triggers:
			if !ok {
				return
			}
			s.deps.Services.Logger.Info("trigger received", "label", s.triggerLabel)
			_, _ = fmt.Fprintln(s.deps.Stdout)
			handlers.StartEntry(ctx, s.deps, s.triggerLabel)
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.Join(args, " ")

	switch name {
	case "log", "start":
		label := rest
		if label == "" {
			label = s.ask("Label: ")
		}
		handlers.StartEntry(ctx, s.deps, label)
	case "stop", "pause":
		handlers.StopEntry(ctx, s.deps)
	case "retro":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(s.deps.Stderr, "Error: retro needs minutes and a label")
			_, _ = fmt.Fprintln(s.deps.Stderr, "Usage: retro <minutes> <label>")
			return false
		}
		minutes, err := handlers.ParseMinutes(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(s.deps.Stderr, "Error: %v\n", err)
			return false
		}
		handlers.RetroEntry(ctx, s.deps, minutes, strings.Join(args[1:], " "))
	case "today":
		handlers.ShowDay(ctx, s.deps, "")
	case "end_day", "end-day":
		handlers.EndDay(ctx, s.deps, "")
	case "drink":
		handlers.RecordDrink(ctx, s.deps, rest)
	case "clear", "reset":
		handlers.Reset(ctx, s.deps, false)
	case "help", "?":
		s.help()
	case "exit", "quit":
		s.exit(ctx)
		return true
	default:
		_, _ = fmt.Fprintf(s.deps.Stderr, "Unknown command: %s\n", fields[0])
		_, _ = fmt.Fprintln(s.deps.Stderr, "Type 'help' for a list of commands")
	}
	return false
}

func (s *Shell) exit(ctx context.Context) {
	stopped, err := s.loop.StopNow(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(s.deps.Stderr, "Error: Failed to stop running entry: %v\n", err)
		return
	}
	if stopped != nil {
		_, _ = fmt.Fprintln(s.deps.Stdout, cli.FormatStopped(*stopped, s.deps.Services.Location))
	}
}

func (s *Shell) ask(question string) string {
	_, _ = fmt.Fprint(s.deps.Stdout, question)
	line, _ := s.deps.In.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *Shell) help() {
	_, _ = fmt.Fprintln(s.deps.Stdout, `Commands:
  log <label>              Start an entry now (asks for the label if omitted)
  stop, pause              Stop the running entry
  retro <minutes> <label>  Start an entry that began <minutes> ago
  today                    Show today's entries, total and drinks
  end_day                  Stop and assign task ids to today's entries
  drink <kind>             Count a drink
  clear                    Delete every entry and counter (asks first)
  exit                     Stop the running entry and leave`)
}

// lockedWriter serializes writes from the prompt and the trigger goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
