// Package importer turns parsed bank statements into ledger entries,
// resolving which local account each statement belongs to.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tois-project/tois/internal/alias"
	"github.com/tois-project/tois/internal/common"
	"github.com/tois-project/tois/internal/model"
	"github.com/tois-project/tois/internal/service"
)

// Matcher resolves a statement's external account identifier to a local
// account via the persisted alias map, suspending on the operator resolver
// only for identifiers never seen before, and appends the statement's
// transactions as entries.
type Matcher struct {
	ledger   service.Ledger
	aliases  *alias.Store
	resolver service.AccountResolver
	progress func(done, total int)

	skipDuplicates bool
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithSkipDuplicates makes the matcher skip statement transactions that
// already exist as entries for the resolved account with an identical date,
// amount and description. This is an opt-in extension: the default behavior
// is that re-importing a statement produces duplicate entries.
func WithSkipDuplicates() Option {
	return func(m *Matcher) { m.skipDuplicates = true }
}

// WithProgress registers a callback invoked after each appended transaction.
func WithProgress(fn func(done, total int)) Option {
	return func(m *Matcher) { m.progress = fn }
}

// NewMatcher creates a statement import matcher.
func NewMatcher(ledger service.Ledger, aliases *alias.Store, resolver service.AccountResolver, opts ...Option) *Matcher {
	m := &Matcher{
		ledger:   ledger,
		aliases:  aliases,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result summarizes one imported statement.
type Result struct {
	AccountName string
	EntryIDs    []int64
	Imported    int
	Skipped     int
}

// ResolveAccount maps the statement's external account identifier to a local
// account name.
//
// The alias map is lazily initialized with one empty set per known account,
// consulted for a first match, and persisted before returning on every path,
// so an identifier resolved through the operator is only ever prompted once.
func (m *Matcher) ResolveAccount(ctx context.Context, statement *model.Statement) (string, error) {
	if statement == nil || statement.ExternalAccountID == "" {
		return "", fmt.Errorf("%w: statement has no external account identifier", common.ErrInvalidInput)
	}

	names, err := m.ledger.ListAccountNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(names) == 0 {
		return "", common.NewUserError("no accounts exist; create one before importing", nil)
	}

	aliasMap, err := m.aliases.Load()
	if err != nil {
		return "", err
	}
	aliasMap.EnsureAccounts(names)

	if name, ok := aliasMap.Resolve(statement.ExternalAccountID); ok {
		if err := m.aliases.Save(aliasMap); err != nil {
			return "", err
		}
		return name, nil
	}

	// Unknown identifier: the one point where import suspends for the
	// operator.
	idx, err := m.resolver.SelectAccount(ctx, statement.ExternalAccountID, names)
	if err != nil {
		_ = m.aliases.Save(aliasMap)
		return "", fmt.Errorf("account selection failed: %w", err)
	}
	if idx < 0 || idx >= len(names) {
		_ = m.aliases.Save(aliasMap)
		return "", fmt.Errorf("%w: account selection %d out of range", common.ErrInvalidInput, idx)
	}

	name := names[idx]
	aliasMap.Add(name, statement.ExternalAccountID)
	if err := m.aliases.Save(aliasMap); err != nil {
		return "", err
	}

	slog.Info("Learned account alias",
		"account", name,
		"external_id", statement.ExternalAccountID)

	return name, nil
}

// ImportStatement resolves the statement's account and appends one entry per
// transaction, in the order the parser produced them. Each append commits on
// its own; a failure aborts the remaining transactions and leaves earlier
// entries in place.
func (m *Matcher) ImportStatement(ctx context.Context, statement *model.Statement) (*Result, error) {
	account, err := m.ResolveAccount(ctx, statement)
	if err != nil {
		return nil, err
	}

	result := &Result{AccountName: account}

	var existing map[string]bool
	if m.skipDuplicates {
		existing, err = m.existingEntryKeys(ctx, account)
		if err != nil {
			return nil, err
		}
	}

	total := len(statement.Transactions)
	for i, txn := range statement.Transactions {
		if m.skipDuplicates && existing[entryKey(txn.Date, txn.Amount, txn.Description)] {
			result.Skipped++
			if m.progress != nil {
				m.progress(i+1, total)
			}
			continue
		}

		entry, err := m.ledger.AddEntry(ctx, model.Entry{
			AccountName: account,
			Date:        txn.Date,
			Amount:      txn.Amount,
			Description: txn.Description,
		})
		if err != nil {
			return result, fmt.Errorf("failed to append entry %d of %d: %w", i+1, total, err)
		}

		result.EntryIDs = append(result.EntryIDs, entry.ID)
		result.Imported++
		if m.progress != nil {
			m.progress(i+1, total)
		}
	}

	slog.Info("Imported statement",
		"account", account,
		"external_id", statement.ExternalAccountID,
		"imported", result.Imported,
		"skipped", result.Skipped)

	return result, nil
}

// existingEntryKeys indexes the account's current entries for duplicate
// skipping. Only entries present before the import count: a statement that
// legitimately repeats the same transaction twice still imports both.
func (m *Matcher) existingEntryKeys(ctx context.Context, account string) (map[string]bool, error) {
	entries, err := m.ledger.QueryEntries(ctx, service.EntryFilter{Accounts: []string{account}})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing entries: %w", err)
	}

	keys := make(map[string]bool, len(entries))
	for _, e := range entries {
		keys[entryKey(e.Date, e.Amount, e.Description)] = true
	}
	return keys, nil
}

func entryKey(date model.Date, amount int64, description string) string {
	return fmt.Sprintf("%s|%d|%s", date, amount, description)
}
