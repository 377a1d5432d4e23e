package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "reconcile ENTRY_ID",
		Short: "Mark an entry as reconciled against a bank statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Reconcile(ctx, id, !clear); err != nil {
				return err
			}

			if clear {
				fmt.Printf("Cleared reconciliation on entry #%d\n", id)
			} else {
				fmt.Printf("Reconciled entry #%d\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "clear the reconciled flag instead of setting it")

	return cmd
}
