package storage

import "errors"

var (
	// ErrNotFound is returned when an operation references a row that does not exist.
	ErrNotFound = errors.New("entry not found")
	// ErrTaskIDAlreadySet is returned when a task id is assigned to an entry twice.
	ErrTaskIDAlreadySet = errors.New("task id already set")
	// ErrEmptyTaskID is returned when an empty task id is assigned.
	ErrEmptyTaskID = errors.New("task id cannot be empty")
	// ErrEmptyKind is returned when a drink kind is empty.
	ErrEmptyKind = errors.New("drink kind cannot be empty")
)

// Error reports a failure of the underlying database. The store performs no
// retries; callers decide whether to try again.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "storage error: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
