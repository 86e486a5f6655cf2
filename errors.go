package relstore

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("relstore: entity not found")

	// ErrTxDone is returned when an operation is issued against a
	// transaction that was already committed or rolled back.
	ErrTxDone = errors.New("relstore: transaction has already been committed or rolled back")
)

// NotFoundError reports that no row exists for an entity type and id.
type NotFoundError struct {
	entity string
	id     int64
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("relstore: %s not found (id=%d)", e.entity, e.id)
}

// Is reports whether the target error matches NotFoundError, so that
// errors.Is(err, ErrNotFound) holds.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Entity returns the entity type name.
func (e *NotFoundError) Entity() string { return e.entity }

// ID returns the id that was searched for.
func (e *NotFoundError) ID() int64 { return e.id }

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// IntegrityError reports that a query assuming identifier uniqueness
// returned more than one row. The engine surfaces this instead of silently
// truncating to the first row.
type IntegrityError struct {
	Entity string
	ID     int64
	Count  int // number of rows seen, at least 2
}

// Error returns the error string.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("relstore: %s id=%d matches %d rows, expected at most one", e.Entity, e.ID, e.Count)
}

// IsIntegrity returns true if the error is an IntegrityError.
func IsIntegrity(err error) bool {
	if err == nil {
		return false
	}
	var e *IntegrityError
	return errors.As(err, &e)
}

// NotRegisteredError reports a lookup for an entity type that was never
// registered with the store. This is a caller contract violation, not a
// database condition.
type NotRegisteredError struct {
	Entity string
}

// Error returns the error string.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("relstore: entity type %q is not registered", e.Entity)
}

// IsNotRegistered returns true if the error is a NotRegisteredError.
func IsNotRegistered(err error) bool {
	if err == nil {
		return false
	}
	var e *NotRegisteredError
	return errors.As(err, &e)
}

// ContractError reports a programmer error such as updating an entity whose
// key is still transient. Contract errors are reported immediately and never
// retried.
type ContractError struct {
	Op     string // operation name, e.g. "update"
	Entity string
	Reason string
}

// Error returns the error string.
func (e *ContractError) Error() string {
	return fmt.Sprintf("relstore: %s %s: %s", e.Op, e.Entity, e.Reason)
}

// IsContract returns true if the error is a ContractError.
func IsContract(err error) bool {
	if err == nil {
		return false
	}
	var e *ContractError
	return errors.As(err, &e)
}
