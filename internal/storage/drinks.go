package storage

import (
	"context"
	"strings"

	"github.com/xolan/chronos/internal/entry"
)

// IncrementDrink adds one to the (date, kind) counter, creating it at 1 on
// first use, and returns the new quantity. The upsert is a single statement,
// so concurrent increments of the same key never lose an update.
func (s *Store) IncrementDrink(ctx context.Context, date, kind string) (int, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return 0, ErrEmptyKind
	}

	var quantity int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO drinks (date, kind, quantity)
		VALUES (?, ?, 1)
		ON CONFLICT(date, kind) DO UPDATE SET quantity = quantity + 1
		RETURNING quantity
	`, date, kind).Scan(&quantity)
	if err != nil {
		return 0, wrap("increment drink", err)
	}
	return quantity, nil
}

// DrinksByDate returns the counters of a date ordered by kind.
func (s *Store) DrinksByDate(ctx context.Context, date string) ([]entry.DrinkCounter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, kind, quantity FROM drinks
		WHERE date = ?
		ORDER BY kind ASC
	`, date)
	if err != nil {
		return nil, wrap("query drinks", err)
	}
	defer func() { _ = rows.Close() }()

	counters := []entry.DrinkCounter{}
	for rows.Next() {
		var c entry.DrinkCounter
		if err := rows.Scan(&c.Date, &c.Kind, &c.Quantity); err != nil {
			return nil, wrap("query drinks", err)
		}
		counters = append(counters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query drinks", err)
	}
	return counters, nil
}
