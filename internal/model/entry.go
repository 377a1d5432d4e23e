package model

import "fmt"

// Entry is a single dated monetary record attributed to one account.
//
// Amount is always an integer count of minor currency units (cents): BRL 1,50
// is stored as 150. No fractional representation is ever persisted.
type Entry struct {
	ID          int64
	AccountName string
	Date        Date
	Amount      int64
	Description string

	// TransferAccount and TransferEntryID optionally link this entry to its
	// double-entry counterpart. Nothing populates both sides automatically
	// yet; they are recorded as given.
	TransferAccount string
	TransferEntryID *int64
	Reconciled      bool
}

func (e Entry) String() string {
	transfer := e.TransferAccount
	if transfer == "" {
		transfer = "-"
	}
	return fmt.Sprintf("#%d %s %s %d %q transfer=%s reconciled=%t",
		e.ID, e.AccountName, e.Date, e.Amount, e.Description, transfer, e.Reconciled)
}
