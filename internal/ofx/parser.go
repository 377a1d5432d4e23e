// Package ofx parses OFX/QFX bank statement files into model statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/tois-project/tois/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns one statement per account the
// file reports on, each with its transactions in file order. A file that
// cannot be parsed is an error; nothing is recovered.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]model.Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var statements []model.Statement

	// Bank statement message sets
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			statements = append(statements, model.Statement{
				ExternalAccountID: string(stmt.BankAcctFrom.AcctID),
				Currency:          stmt.CurDef.String(),
				Transactions:      p.convertTransactions(stmt.BankTranList),
			})
		}
	}

	// Credit card statement message sets
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			statements = append(statements, model.Statement{
				ExternalAccountID: string(stmt.CCAcctFrom.AcctID),
				Currency:          stmt.CurDef.String(),
				Transactions:      p.convertTransactions(stmt.BankTranList),
			})
		}
	}

	total := 0
	for _, st := range statements {
		total += len(st.Transactions)
	}
	slog.Info("Parsed OFX file",
		"statements", len(statements),
		"total_transactions", total)

	return statements, nil
}

func (p *Parser) convertTransactions(list *ofxgo.TransactionList) []model.StatementTransaction {
	if list == nil {
		return nil
	}

	transactions := make([]model.StatementTransaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		transactions = append(transactions, model.StatementTransaction{
			Date:        model.DateOf(ofxTx.DtPosted.Time),
			Amount:      toMinorUnits(&ofxTx.TrnAmt.Rat),
			Description: p.extractDescription(ofxTx),
		})
	}
	return transactions
}

// toMinorUnits scales a decimal OFX amount to integer minor currency units:
// -25.50 becomes -2550. Amounts are kept exact whenever the scaled value is
// integral, which it is for every two-decimal currency.
func toMinorUnits(amount *big.Rat) int64 {
	scaled := new(big.Rat).Mul(amount, big.NewRat(100, 1))
	if scaled.IsInt() {
		return scaled.Num().Int64()
	}
	f, _ := scaled.Float64()
	return int64(math.Round(f))
}

// extractDescription picks the most useful memo text from an OFX transaction.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	memo := strings.TrimSpace(string(tx.Memo))

	if name == "" {
		return memo
	}
	if memo != "" && !strings.EqualFold(memo, name) {
		return name + " " + memo
	}
	return name
}
