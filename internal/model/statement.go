package model

// Statement is a parsed bank statement: the external account identifier the
// bank reported, and its transactions in file order.
type Statement struct {
	ExternalAccountID string
	Currency          string
	Transactions      []StatementTransaction
}

// StatementTransaction is one transaction record from a parsed statement.
// Amount is signed and in minor currency units, matching Entry.Amount.
type StatementTransaction struct {
	Date        Date
	Amount      int64
	Description string
}
