package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/xolan/chronos/internal/entry"
)

const entryColumns = `id, date, time_start, time_end, label, task_id, exported`

// Insert creates an open, unreconciled entry and returns its id.
// Ids come from an AUTOINCREMENT sequence and are never reused.
func (s *Store) Insert(ctx context.Context, date, timeStart, label string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO time_log (date, time_start, label)
		VALUES (?, ?, ?)
	`, date, timeStart, label)
	if err != nil {
		return 0, wrap("insert entry", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("insert entry", err)
	}
	return id, nil
}

// CloseOpen sets the end time of the entry with the given id.
// Returns ErrNotFound if the entry does not exist.
func (s *Store) CloseOpen(ctx context.Context, id int64, timeEnd string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE time_log SET time_end = ? WHERE id = ?`, timeEnd, id)
	if err != nil {
		return wrap("close entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("close entry", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTaskID assigns a task id to an entry. A task id is set at most once:
// assigning to an entry that already has one returns ErrTaskIDAlreadySet.
func (s *Store) SetTaskID(ctx context.Context, id int64, taskID string) error {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return ErrEmptyTaskID
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE time_log SET task_id = ?
		WHERE id = ? AND task_id IS NULL
	`, taskID, id)
	if err != nil {
		return wrap("set task id", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("set task id", err)
	}
	if n == 1 {
		return nil
	}

	// Distinguish a missing row from an already reconciled one.
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return ErrTaskIDAlreadySet
}

// Get returns the entry with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (entry.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM time_log WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entry.TimeEntry{}, ErrNotFound
	}
	if err != nil {
		return entry.TimeEntry{}, wrap("get entry", err)
	}
	return e, nil
}

// QueryByDate returns all entries of a date in insertion order.
func (s *Store) QueryByDate(ctx context.Context, date string) ([]entry.TimeEntry, error) {
	return s.queryEntries(ctx, "query by date", `
		SELECT `+entryColumns+` FROM time_log
		WHERE date = ?
		ORDER BY id ASC
	`, date)
}

// QueryUnlabeledClosed returns the closed entries of a date that have no
// task id yet, in insertion order.
func (s *Store) QueryUnlabeledClosed(ctx context.Context, date string) ([]entry.TimeEntry, error) {
	return s.queryEntries(ctx, "query unlabeled", `
		SELECT `+entryColumns+` FROM time_log
		WHERE date = ? AND time_end IS NOT NULL AND task_id IS NULL
		ORDER BY id ASC
	`, date)
}

// FindLastTaskIDForLabel returns the task id of the most recent entry
// (highest id) sharing label that has one. The boolean is false when no
// entry with that label was reconciled yet.
func (s *Store) FindLastTaskIDForLabel(ctx context.Context, label string) (string, bool, error) {
	var taskID string
	err := s.db.QueryRowContext(ctx, `
		SELECT task_id FROM time_log
		WHERE label = ? AND task_id IS NOT NULL
		ORDER BY id DESC
		LIMIT 1
	`, label).Scan(&taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("find task id", err)
	}
	return taskID, true, nil
}

// LatestOpen returns the most recent entry without an end time across all
// dates, or nil if every entry is closed.
func (s *Store) LatestOpen(ctx context.Context) (*entry.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM time_log
		WHERE time_end IS NULL
		ORDER BY id DESC
		LIMIT 1
	`)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("latest open", err)
	}
	return &e, nil
}

// CountOpen returns how many entries have no end time.
func (s *Store) CountOpen(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM time_log WHERE time_end IS NULL`).Scan(&n); err != nil {
		return 0, wrap("count open", err)
	}
	return n, nil
}

// MarkExported flags the given entries as exported in one transaction.
func (s *Store) MarkExported(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("mark exported", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE time_log SET exported = 1 WHERE id = ?`)
	if err != nil {
		return wrap("mark exported", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, id)
		if err != nil {
			return wrap("mark exported", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}
	return wrap("mark exported", tx.Commit())
}

func (s *Store) queryEntries(ctx context.Context, op, query string, args ...any) ([]entry.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() { _ = rows.Close() }()

	entries := []entry.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (entry.TimeEntry, error) {
	var (
		e       entry.TimeEntry
		timeEnd sql.NullString
		taskID  sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Date, &e.TimeStart, &timeEnd, &e.Label, &taskID, &e.Exported); err != nil {
		return entry.TimeEntry{}, err
	}
	if timeEnd.Valid {
		e.TimeEnd = &timeEnd.String
	}
	if taskID.Valid {
		e.TaskID = &taskID.String
	}
	return e, nil
}
