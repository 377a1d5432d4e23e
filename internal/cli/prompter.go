package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tois-project/tois/internal/service"
)

// Prompter implements service.AccountResolver over a terminal: when a
// statement's account identifier matches no known alias, it lists the local
// accounts and blocks until the operator picks one.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

var _ service.AccountResolver = (*Prompter)(nil)

// NewPrompter creates a prompter with the given reader and writer.
// Nil arguments default to stdin and stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// SelectAccount shows the candidate accounts and returns the chosen index.
// It re-prompts on invalid input and honors context cancellation between
// attempts; while actually reading it blocks indefinitely, as statement
// import has no timeout.
func (p *Prompter) SelectAccount(ctx context.Context, externalID string, accounts []string) (int, error) {
	header := TitleStyle.Render("Unknown statement account") + "\n" +
		fmt.Sprintf("No local account is linked to %q yet.", externalID)
	if _, err := fmt.Fprintln(p.writer, BoxStyle.Render(header)); err != nil {
		return 0, fmt.Errorf("failed to write prompt: %w", err)
	}

	for i, name := range accounts {
		if _, err := fmt.Fprintf(p.writer, "  %2d) %s\n", i+1, name); err != nil {
			return 0, fmt.Errorf("failed to write account list: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		if _, err := fmt.Fprintf(p.writer, "Select account [1-%d]: ", len(accounts)); err != nil {
			return 0, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			return 0, fmt.Errorf("failed to read selection: %w", err)
		}

		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || choice < 1 || choice > len(accounts) {
			if _, err := fmt.Fprintln(p.writer, WarningStyle.Render("Please enter a number from the list.")); err != nil {
				return 0, fmt.Errorf("failed to write warning: %w", err)
			}
			if err != nil {
				// Reader is exhausted and the last line was invalid.
				return 0, fmt.Errorf("no valid selection: %w", err)
			}
			continue
		}

		return choice - 1, nil
	}
}
