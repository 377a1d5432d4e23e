package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tois-project/tois/internal/cli"
	"github.com/tois-project/tois/internal/model"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage ledger accounts",
	}

	cmd.AddCommand(accountCreateCmd())
	cmd.AddCommand(accountListCmd())

	return cmd
}

func accountCreateCmd() *cobra.Command {
	var kind, currency, description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new account",
		Long: `Create a new account. The name is the unique identifier; the kind must be
one of Assets, Liabilities, Income, Expenses or Equity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountKind, err := model.ParseAccountKind(kind)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account := model.Account{
				Name:        args[0],
				Kind:        accountKind,
				Currency:    currency,
				Description: description,
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return err
			}

			fmt.Printf("Created account %s\n", account)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "account kind (Assets, Liabilities, Income, Expenses, Equity)")
	cmd.Flags().StringVarP(&currency, "currency", "c", "BRL", "currency code (e.g. BRL, USD, EUR)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func accountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.ListAccounts(ctx)
			if err != nil {
				return err
			}

			if len(accounts) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No accounts yet."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Accounts"))
			for _, account := range accounts {
				fmt.Printf("  %-12s %-12s %-4s %s\n",
					account.Name, account.Kind, account.Currency, account.Description)
			}
			return nil
		},
	}
}
