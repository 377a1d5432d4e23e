// Package testutil provides shared test fixtures for the tois ledger.
package testutil

import (
	"context"
	"testing"

	"github.com/tois-project/tois/internal/model"
	"github.com/tois-project/tois/internal/storage"
)

// SetupTestLedger creates a migrated in-memory ledger seeded with the given
// accounts, registering cleanup on the test.
func SetupTestLedger(t *testing.T, accounts ...model.Account) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, account := range accounts {
		if err := store.CreateAccount(ctx, account); err != nil {
			_ = store.Close()
			t.Fatalf("failed to seed account %q: %v", account.Name, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// BasicAccounts returns the account fixtures used across tests: a checking
// account, a savings account and an expense bucket.
func BasicAccounts() []model.Account {
	return []model.Account{
		{Name: "ccsp", Kind: model.KindAssets, Currency: "BRL", Description: "Conta Corrente São Paulo"},
		{Name: "ppsp", Kind: model.KindAssets, Currency: "BRL", Description: "Poupança São Paulo"},
		{Name: "foodBr", Kind: model.KindExpenses, Currency: "BRL", Description: "Despesas com comida"},
	}
}
