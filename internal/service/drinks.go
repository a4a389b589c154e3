package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xolan/chronos/internal/entry"
	"github.com/xolan/chronos/internal/timeutil"
)

// ErrUnknownDrinkKind is returned when drink_kinds is set and the kind is not in it.
var ErrUnknownDrinkKind = errors.New("unknown drink kind")

type drinkStore interface {
	IncrementDrink(ctx context.Context, date, kind string) (int, error)
	DrinksByDate(ctx context.Context, date string) ([]entry.DrinkCounter, error)
}

// DrinkService records drinks against today's counters.
type DrinkService struct {
	store  drinkStore
	config *ConfigService
	now    func() time.Time
	loc    *time.Location
}

// NewDrinkService creates a new DrinkService
func NewDrinkService(store drinkStore, cfg *ConfigService, now func() time.Time, loc *time.Location) *DrinkService {
	return &DrinkService{store: store, config: cfg, now: now, loc: loc}
}

// Record increments today's counter for kind and returns the new value.
func (s *DrinkService) Record(ctx context.Context, kind string) (entry.DrinkCounter, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != "" && !s.config.Get().AllowsDrink(kind) {
		return entry.DrinkCounter{}, fmt.Errorf("%w: %q (allowed: %s)", ErrUnknownDrinkKind, kind, strings.Join(s.config.Get().DrinkKinds, ", "))
	}

	date := timeutil.FormatDate(s.now().In(s.loc))
	quantity, err := s.store.IncrementDrink(ctx, date, kind)
	if err != nil {
		return entry.DrinkCounter{}, err
	}
	return entry.DrinkCounter{Date: date, Kind: kind, Quantity: quantity}, nil
}

// Today lists today's counters.
func (s *DrinkService) Today(ctx context.Context) ([]entry.DrinkCounter, error) {
	return s.store.DrinksByDate(ctx, timeutil.FormatDate(s.now().In(s.loc)))
}
