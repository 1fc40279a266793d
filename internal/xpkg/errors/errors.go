package errors

import (
	"errors"
	"fmt"
)

var (
	ErrParseCmd       = errors.New("cannot parse arguments")
	ErrHelp           = errors.New("")
	ErrModeFlag       = errors.New("mode flag is required")
	ErrUnknownService = errors.New("unknown service, write --help command to see valid services")

	ErrDBConn  = errors.New("db connection failure")
	ErrRMQConn = errors.New("rabbitmq connection failure")

	// Error kinds surfaced by the order desk operations.
	ErrValidation   = errors.New("validation failed")
	ErrState        = errors.New("invalid order state")
	ErrPersistence  = errors.New("local store failure")
	ErrRemote       = errors.New("remote collaborator failure")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError names the field whose precondition failed.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StateError reports a transition attempted from the wrong status.
type StateError struct {
	OrderID string
	Current string
	Want    string
}

func NewState(orderID, current, want string) *StateError {
	return &StateError{OrderID: orderID, Current: current, Want: want}
}

func (e *StateError) Error() string {
	return fmt.Sprintf("order %s is %s, expected %s", e.OrderID, e.Current, e.Want)
}

func (e *StateError) Is(target error) bool {
	return target == ErrState
}

// Persistence wraps a store failure so callers can match ErrPersistence.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// Remote wraps a collaborator failure so callers can match ErrRemote.
func Remote(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
}
