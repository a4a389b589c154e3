package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/xolan/chronos/internal/service"
	"github.com/xolan/chronos/internal/session"
)

// Deps contains all dependencies for CLI operations
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	// In is shared by every prompt so buffered input is never lost
	// between a command line and the questions it asks.
	In   *bufio.Reader
	Exit func(code int)

	Services *service.Services
	// Session drives the open entry. It is the plain engine for one-shot
	// commands and the running loop inside the shell and the TUI.
	Session session.Controller
}

// NewDeps creates a new Deps with the given services, wired to the
// process's standard streams.
func NewDeps(services *service.Services) *Deps {
	return &Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		In:       bufio.NewReader(os.Stdin),
		Exit:     os.Exit,
		Services: services,
		Session:  services.Session,
	}
}

// WithSession returns a copy of d that drives the open entry through c.
func (d *Deps) WithSession(c session.Controller) *Deps {
	cp := *d
	cp.Session = c
	return &cp
}
