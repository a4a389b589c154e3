package cmd

import (
	"context"
	"io"
	"os"

	"github.com/xolan/chronos/internal/config"
	"github.com/xolan/chronos/internal/service"
)

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Exit   func(code int)
	// OpenServices opens the database and recovers the open entry. The
	// caller closes the returned Services.
	OpenServices func(ctx context.Context) (*service.Services, error)
	// StoragePath resolves the database file without opening it.
	StoragePath func() (string, error)
	// LoadConfig reads the config file, or the defaults when there is none.
	LoadConfig func() (config.Config, error)
	// Notify relays the start-now trigger signal to c until the returned
	// function is called.
	Notify func(c chan<- os.Signal) (stop func())
}

// DefaultDeps returns the default production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Exit:   os.Exit,
		OpenServices: func(ctx context.Context) (*service.Services, error) {
			return service.NewServices(ctx)
		},
		StoragePath: defaultStoragePath,
		LoadConfig:  loadConfig,
		Notify:      notifyTrigger,
	}
}

func loadConfig() (config.Config, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	return config.LoadOrDefault(configPath)
}

func defaultStoragePath() (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.ResolveDatabasePath()
}

// deps is the global dependencies instance used by commands.
// In production, this is DefaultDeps(). Tests can replace it.
var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}
