package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tois-project/tois/internal/common"
	"github.com/tois-project/tois/internal/model"
)

// CreateAccount persists a new account. The account name is the unique
// identifier; creating a second account with the same name fails with
// common.ErrDuplicateAccount.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE name = ?)`, account.Name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check account existence: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", common.ErrDuplicateAccount, account.Name)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (name, kind, currency, description)
		VALUES (?, ?, ?, ?)
	`, account.Name, string(account.Kind), account.Currency, account.Description)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return tx.Commit()
}

// GetAccount returns the account with the given name, or
// common.ErrUnknownAccount if no such account exists.
func (s *SQLiteStorage) GetAccount(ctx context.Context, name string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var account model.Account
	var kind string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, kind, currency, description FROM accounts WHERE name = ?
	`, name).Scan(&account.Name, &kind, &account.Currency, &account.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownAccount, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.Kind = model.AccountKind(kind)

	return &account, nil
}

// ListAccounts returns all known accounts ordered by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, currency, description FROM accounts ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		var kind string
		if err := rows.Scan(&account.Name, &kind, &account.Currency, &account.Description); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Kind = model.AccountKind(kind)
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// ListAccountNames returns the names of all known accounts, sorted ascending.
func (s *SQLiteStorage) ListAccountNames(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan account name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
