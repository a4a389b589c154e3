package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/service"
	"github.com/xolan/chronos/internal/storage"
)

// RecordDrink adds one to today's counter of kind.
func RecordDrink(ctx context.Context, deps *cli.Deps, kind string) {
	counter, err := deps.Services.Drinks.Record(ctx, kind)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEmptyKind):
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Drink kind cannot be empty")
			_, _ = fmt.Fprintln(deps.Stderr, "Usage: chronos drink <kind>")
		case errors.Is(err, service.ErrUnknownDrinkKind):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Unknown drink kind '%s'\n", strings.TrimSpace(kind))
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Allowed kinds are %s (drink_kinds in %s)\n",
				strings.Join(deps.Services.Config.Get().DrinkKinds, ", "), deps.Services.Config.GetPath())
		default:
			storageError(deps, "record drink", err)
			return
		}
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "%s: %d today\n", counter.Kind, counter.Quantity)
}
