package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tois-project/tois/internal/cli"
	"github.com/tois-project/tois/internal/model"
	"github.com/tois-project/tois/internal/service"
)

func entryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and inspect ledger entries",
	}

	cmd.AddCommand(entryAddCmd())
	cmd.AddCommand(entryListCmd())
	cmd.AddCommand(entrySetCmd())

	return cmd
}

func entryAddCmd() *cobra.Command {
	var dateStr, amountStr, description, transfer string

	cmd := &cobra.Command{
		Use:   "add ACCOUNT",
		Short: "Record a manual entry",
		Long: `Record a manual entry against an existing account. Amounts are decimal and
stored as integer minor currency units: -25.50 is stored as -2550.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := model.ParseDate(dateStr)
			if err != nil {
				return err
			}
			amount, err := parseAmount(amountStr)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry, err := store.AddEntry(ctx, model.Entry{
				AccountName:     args[0],
				Date:            date,
				Amount:          amount,
				Description:     description,
				TransferAccount: transfer,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Added entry #%d to %s\n", entry.ID, entry.AccountName)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "signed decimal amount, e.g. -25.50")
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	cmd.Flags().StringVar(&transfer, "transfer", "", "counterpart account for transfers")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func entryListCmd() *cobra.Command {
	var accounts []string
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, optionally filtered by account and date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := service.EntryFilter{Accounts: accounts}
			if fromStr != "" {
				from, err := model.ParseDate(fromStr)
				if err != nil {
					return err
				}
				filter.Start = &from
			}
			if toStr != "" {
				to, err := model.ParseDate(toStr)
				if err != nil {
					return err
				}
				filter.End = &to
			}

			ctx := cmd.Context()
			store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.QueryEntries(ctx, filter)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No entries match."))
				return nil
			}

			for _, entry := range entries {
				reconciled := " "
				if entry.Reconciled {
					reconciled = "R"
				}
				fmt.Printf("%6d %s %s %-12s %10s  %s\n",
					entry.ID, reconciled, entry.Date, entry.AccountName,
					formatAmount(entry.Amount), entry.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&accounts, "account", "a", nil, "restrict to these accounts (repeatable)")
	cmd.Flags().StringVar(&fromStr, "from", "", "start of date range (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toStr, "to", "", "end of date range (YYYY-MM-DD, inclusive)")

	return cmd
}

func entrySetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set ENTRY_ID FIELD VALUE",
		Short: "Update a single field of an entry",
		Long: `Update one field of an existing entry. Valid fields: account_name, date,
amount, description, transfer_account, transfer_entry_id, reconciled.
The id is protected and cannot be changed.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			value, err := coerceFieldValue(args[1], args[2])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateEntryField(ctx, id, args[1], value); err != nil {
				return err
			}

			fmt.Printf("Updated entry #%d\n", id)
			return nil
		},
	}

	return cmd
}
