package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tois-project/tois/internal/common"
	"github.com/tois-project/tois/internal/model"
	"github.com/tois-project/tois/internal/service"
)

// AddEntry appends a new entry owned by entry.AccountName, assigning a fresh
// id. The owning account must already exist; an unknown account fails with
// common.ErrUnknownAccount and writes nothing.
func (s *SQLiteStorage) AddEntry(ctx context.Context, entry model.Entry) (*model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE name = ?)`, entry.AccountName,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check account existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownAccount, entry.AccountName)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO entries (
			account_name, year, month, day, amount, description,
			transfer_account, transfer_entry_id, reconciled
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.AccountName,
		entry.Date.Year,
		entry.Date.Month,
		entry.Date.Day,
		entry.Amount,
		entry.Description,
		nullString(entry.TransferAccount),
		nullInt64(entry.TransferEntryID),
		entry.Reconciled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit entry: %w", err)
	}

	entry.ID = id
	return &entry, nil
}

// GetEntry returns the entry with the given id, or common.ErrEntryNotFound.
func (s *SQLiteStorage) GetEntry(ctx context.Context, id int64) (*model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_name, year, month, day, amount, description,
		       transfer_account, transfer_entry_id, reconciled
		FROM entries WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", common.ErrEntryNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// entryFields maps updatable field names to their column expressions. The id
// is deliberately absent: it is protected.
var entryFields = map[string]string{
	"account_name":      "account_name = ?",
	"date":              "year = ?, month = ?, day = ?",
	"amount":            "amount = ?",
	"description":       "description = ?",
	"transfer_account":  "transfer_account = ?",
	"transfer_entry_id": "transfer_entry_id = ?",
	"reconciled":        "reconciled = ?",
}

// UpdateEntryField mutates a single field of an existing entry.
//
// Unknown field names fail with common.ErrUnknownField, "id" with
// common.ErrProtectedField, a missing entry with common.ErrEntryNotFound, and
// a value of the wrong type for the field with common.ErrInvalidInput. The id
// column is a primary key, so a duplicate-id match can never occur here.
func (s *SQLiteStorage) UpdateEntryField(ctx context.Context, id int64, field string, value any) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if field == "id" {
		return fmt.Errorf("%w: id", common.ErrProtectedField)
	}
	setClause, ok := entryFields[field]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrUnknownField, field)
	}

	args, err := s.entryFieldArgs(ctx, field, value)
	if err != nil {
		return err
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, `UPDATE entries SET `+setClause+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", common.ErrEntryNotFound, id)
	}

	return nil
}

// entryFieldArgs coerces value into the SQL arguments for the given field.
func (s *SQLiteStorage) entryFieldArgs(ctx context.Context, field string, value any) ([]any, error) {
	switch field {
	case "account_name":
		name, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants a string, got %T", common.ErrInvalidInput, field, value)
		}
		// Re-homing an entry still has to point at a known account.
		if _, err := s.GetAccount(ctx, name); err != nil {
			return nil, err
		}
		return []any{name}, nil

	case "date":
		switch v := value.(type) {
		case model.Date:
			return []any{v.Year, v.Month, v.Day}, nil
		case string:
			d, err := model.ParseDate(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
			}
			return []any{d.Year, d.Month, d.Day}, nil
		default:
			return nil, fmt.Errorf("%w: %s wants a date, got %T", common.ErrInvalidInput, field, value)
		}

	case "amount":
		switch v := value.(type) {
		case int64:
			return []any{v}, nil
		case int:
			return []any{int64(v)}, nil
		default:
			return nil, fmt.Errorf("%w: %s wants integer minor units, got %T", common.ErrInvalidInput, field, value)
		}

	case "description", "transfer_account":
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants a string, got %T", common.ErrInvalidInput, field, value)
		}
		if field == "transfer_account" {
			return []any{nullString(str)}, nil
		}
		return []any{str}, nil

	case "transfer_entry_id":
		switch v := value.(type) {
		case nil:
			return []any{sql.NullInt64{}}, nil
		case int64:
			return []any{v}, nil
		case int:
			return []any{int64(v)}, nil
		default:
			return nil, fmt.Errorf("%w: %s wants an entry id or nil, got %T", common.ErrInvalidInput, field, value)
		}

	case "reconciled":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants a bool, got %T", common.ErrInvalidInput, field, value)
		}
		return []any{b}, nil
	}

	return nil, fmt.Errorf("%w: %s", common.ErrUnknownField, field)
}

// Reconcile marks the entry as matched against an external statement.
func (s *SQLiteStorage) Reconcile(ctx context.Context, id int64, value bool) error {
	return s.UpdateEntryField(ctx, id, "reconciled", value)
}

// DeleteEntry is declared but intentionally unimplemented: the deletion
// semantics (hard delete vs tombstone, and what happens to a linked transfer
// entry) are still undecided.
func (s *SQLiteStorage) DeleteEntry(_ context.Context, id int64) error {
	return fmt.Errorf("delete entry %d: %w", id, common.ErrNotImplemented)
}

// QueryEntries returns the entries of the accounts named in the filter (all
// accounts when the filter names none), optionally restricted to the closed
// date interval [Start, End], ordered by the composite date ascending. The
// query re-executes on every call.
func (s *SQLiteStorage) QueryEntries(ctx context.Context, filter service.EntryFilter) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter.Start, filter.End); err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_name, year, month, day, amount, description,
		       transfer_account, transfer_entry_id, reconciled
		FROM entries`

	var conditions []string
	var args []any

	if len(filter.Accounts) > 0 {
		placeholders := strings.Repeat("?,", len(filter.Accounts))
		conditions = append(conditions, fmt.Sprintf("account_name IN (%s)", placeholders[:len(placeholders)-1]))
		for _, name := range filter.Accounts {
			args = append(args, name)
		}
	}
	if filter.Start != nil {
		conditions = append(conditions, "(year, month, day) >= (?, ?, ?)")
		args = append(args, filter.Start.Year, filter.Start.Month, filter.Start.Day)
	}
	if filter.End != nil {
		conditions = append(conditions, "(year, month, day) <= (?, ?, ?)")
		args = append(args, filter.End.Year, filter.End.Month, filter.End.Day)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY year, month, day, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.Entry, error) {
	var entry model.Entry
	var transferAccount sql.NullString
	var transferEntryID sql.NullInt64

	err := row.Scan(
		&entry.ID,
		&entry.AccountName,
		&entry.Date.Year,
		&entry.Date.Month,
		&entry.Date.Day,
		&entry.Amount,
		&entry.Description,
		&transferAccount,
		&transferEntryID,
		&entry.Reconciled,
	)
	if err != nil {
		return nil, err
	}

	if transferAccount.Valid {
		entry.TransferAccount = transferAccount.String
	}
	if transferEntryID.Valid {
		id := transferEntryID.Int64
		entry.TransferEntryID = &id
	}

	return &entry, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
