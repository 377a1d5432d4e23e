// Package storage provides the data persistence layer for the tois ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tois-project/tois/internal/common"
	"github.com/tois-project/tois/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAccount validates an account record before it is persisted.
func validateAccount(account model.Account) error {
	if err := validateString(account.Name, "account.Name"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if !account.Kind.Valid() {
		return fmt.Errorf("%w: account kind %q", common.ErrInvalidInput, account.Kind)
	}
	if err := validateString(account.Currency, "account.Currency"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return nil
}

// validateEntry validates an entry record before it is persisted.
func validateEntry(entry model.Entry) error {
	if err := validateString(entry.AccountName, "entry.AccountName"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if entry.Date.IsZero() {
		return fmt.Errorf("%w: entry date is unset", common.ErrInvalidInput)
	}
	return nil
}

// validateFilter validates an entry query filter.
func validateFilter(start, end *model.Date) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: start date %s is after end date %s", common.ErrInvalidInput, start, end)
	}
	return nil
}
