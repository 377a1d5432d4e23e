package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tois-project/tois/internal/cli"
	"github.com/tois-project/tois/internal/importer"
	"github.com/tois-project/tois/internal/model"
	"github.com/tois-project/tois/internal/ofx"
	"github.com/tois-project/tois/internal/service"
)

func importOFXCmd() *cobra.Command {
	var skipDuplicates bool

	cmd := &cobra.Command{
		Use:   "import-ofx FILES...",
		Short: "Import entries from OFX/QFX bank statement files",
		Long: `Import bank statement transactions as ledger entries.

Each statement's account number is matched against the persisted alias map;
unknown account numbers prompt once for the local account and are remembered.
Re-importing the same statement produces duplicate entries unless
--skip-duplicates is given.

Examples:
  tois import-ofx ~/Downloads/extrato_jan.ofx
  tois import-ofx ~/Downloads/*.qfx --skip-duplicates`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportOFX(cmd, args, skipDuplicates)
		},
	}

	cmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "skip transactions already present for the account")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string, skipDuplicates bool) error {
	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	ctx := cmd.Context()
	store, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	parser := ofx.NewParser()
	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	totalImported := 0
	totalSkipped := 0

	for _, filePath := range allFiles {
		statements, err := parseStatementFile(ctx, parser, filePath)
		if err != nil {
			// Unparseable statements are surfaced, not retried.
			return err
		}
		if len(statements) == 0 {
			slog.Warn("No statements found in file", "file", filepath.Base(filePath))
			continue
		}

		for i := range statements {
			result, err := importStatement(ctx, store, prompter, &statements[i], skipDuplicates)
			if err != nil {
				return err
			}
			totalImported += result.Imported
			totalSkipped += result.Skipped

			fmt.Printf("%s: %d entries into %s", filepath.Base(filePath), result.Imported, result.AccountName)
			if result.Skipped > 0 {
				fmt.Printf(" (%d duplicates skipped)", result.Skipped)
			}
			fmt.Println()
		}
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Imported %d entries (%d skipped)", totalImported, totalSkipped)))
	return nil
}

func parseStatementFile(ctx context.Context, parser *ofx.Parser, filePath string) ([]model.Statement, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	statements, err := parser.ParseFile(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return statements, nil
}

func importStatement(ctx context.Context, store service.Ledger, prompter service.AccountResolver, statement *model.Statement, skipDuplicates bool) (*importer.Result, error) {
	bar := progressbar.NewOptions(len(statement.Transactions),
		progressbar.OptionSetDescription("importing"),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)

	opts := []importer.Option{
		importer.WithProgress(func(done, _ int) {
			_ = bar.Set(done)
		}),
	}
	if skipDuplicates {
		opts = append(opts, importer.WithSkipDuplicates())
	}

	matcher := importer.NewMatcher(store, aliasStore(), prompter, opts...)

	result, err := matcher.ImportStatement(ctx, statement)
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}
	return result, nil
}
