// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Ledger error kinds. All are local, recoverable-by-caller conditions.
var (
	// Account errors.
	ErrDuplicateAccount = errors.New("account already exists")
	ErrUnknownAccount   = errors.New("unknown account")

	// Entry errors.
	ErrEntryNotFound  = errors.New("entry not found")
	ErrUnknownField   = errors.New("unknown entry field")
	ErrProtectedField = errors.New("entry field is protected")

	// Input and capability errors.
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotImplemented = errors.New("not yet implemented")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
