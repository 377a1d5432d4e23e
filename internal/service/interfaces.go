// Package service defines the interfaces the application's components
// implement and consume.
package service

import (
	"context"
	"io"

	"github.com/tois-project/tois/internal/model"
)

// EntryFilter defines filtering options for entry queries.
//
// An empty Accounts slice means all accounts. Start and End, when set, bound
// the result to the closed date interval [Start, End].
type EntryFilter struct {
	Accounts []string
	Start    *model.Date
	End      *model.Date
}

// Ledger defines the contract for the persistence layer.
type Ledger interface {
	// Account operations.
	CreateAccount(ctx context.Context, account model.Account) error
	GetAccount(ctx context.Context, name string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	ListAccountNames(ctx context.Context) ([]string, error)

	// Entry operations. AddEntry assigns a fresh id and returns the stored
	// entry; every mutating operation is committed before it returns.
	AddEntry(ctx context.Context, entry model.Entry) (*model.Entry, error)
	GetEntry(ctx context.Context, id int64) (*model.Entry, error)
	UpdateEntryField(ctx context.Context, id int64, field string, value any) error
	Reconcile(ctx context.Context, id int64, value bool) error
	DeleteEntry(ctx context.Context, id int64) error
	QueryEntries(ctx context.Context, filter EntryFilter) ([]model.Entry, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// StatementParser converts a raw bank statement file into parsed statements.
type StatementParser interface {
	ParseFile(ctx context.Context, reader io.Reader) ([]model.Statement, error)
}

// AccountResolver is the operator hook the import matcher suspends on when a
// statement's external account identifier matches no known alias. It receives
// the candidate local account names and returns the chosen index.
type AccountResolver interface {
	SelectAccount(ctx context.Context, externalID string, accounts []string) (int, error)
}
