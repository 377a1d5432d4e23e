// Package model defines the core data records shared across the application.
package model

import "fmt"

// AccountKind classifies an account into one of the five ledger categories.
type AccountKind string

// The five account kinds every account must belong to.
const (
	KindAssets      AccountKind = "Assets"
	KindLiabilities AccountKind = "Liabilities"
	KindIncome      AccountKind = "Income"
	KindExpenses    AccountKind = "Expenses"
	KindEquity      AccountKind = "Equity"
)

// AccountKinds lists the valid kinds in display order.
var AccountKinds = []AccountKind{
	KindAssets,
	KindLiabilities,
	KindIncome,
	KindExpenses,
	KindEquity,
}

// Valid reports whether the kind is one of the five known categories.
func (k AccountKind) Valid() bool {
	switch k {
	case KindAssets, KindLiabilities, KindIncome, KindExpenses, KindEquity:
		return true
	}
	return false
}

// ParseAccountKind converts a string into an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	k := AccountKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown account kind %q (want one of Assets, Liabilities, Income, Expenses, Equity)", s)
	}
	return k, nil
}

// Account is a named ledger bucket. Name is the unique identifier.
type Account struct {
	Name        string
	Kind        AccountKind
	Currency    string // ISO-like code, e.g. BRL, USD, EUR
	Description string
}

func (a Account) String() string {
	return fmt.Sprintf("%s [%s, %s] %s", a.Name, a.Kind, a.Currency, a.Description)
}
