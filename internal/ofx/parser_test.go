package ofx

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tois-project/tois/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20171201120000[0:GMT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>341
<ACCTID>9912-3
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20171101120000[0:GMT]
<DTEND>20171130120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20171101120000[0:GMT]
<TRNAMT>-25.50
<FITID>2017110101
<NAME>Lanche no McDo
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20171105120000[0:GMT]
<TRNAMT>-150.00
<FITID>2017110501
<NAME>Mercado
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20171127120000[0:GMT]
<TRNAMT>3000.00
<FITID>2017112701
<NAME>Salario
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2824.50
<DTASOF>20171130120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParser_ParseFile(t *testing.T) {
	parser := NewParser()

	statements, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, statements, 1)

	st := statements[0]
	assert.Equal(t, "9912-3", st.ExternalAccountID)
	assert.Equal(t, "BRL", st.Currency)
	require.Len(t, st.Transactions, 3)

	// File order is preserved and amounts land as exact minor units.
	want := []model.StatementTransaction{
		{Date: model.NewDate(2017, 11, 1), Amount: -2550, Description: "Lanche no McDo"},
		{Date: model.NewDate(2017, 11, 5), Amount: -15000, Description: "Mercado"},
		{Date: model.NewDate(2017, 11, 27), Amount: 300000, Description: "Salario"},
	}
	assert.Equal(t, want, st.Transactions)
}

func TestParser_ParseFile_Invalid(t *testing.T) {
	parser := NewParser()

	_, err := parser.ParseFile(context.Background(), strings.NewReader("this is not an OFX file"))
	require.Error(t, err)
}

func TestParser_PreprocessOFX(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "leading blank lines trimmed",
			input: "\n\n  OFXHEADER:100",
			want:  "OFXHEADER:100",
		},
		{
			name:  "mixed case severity upper-cased",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "missing closing bracket fixed",
			input: "<STMTTRN",
			want:  "<STMTTRN>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.preprocessOFX(tt.input))
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount *big.Rat
		want   int64
	}{
		{"negative two decimals", big.NewRat(-2550, 100), -2550},
		{"whole number", big.NewRat(3000, 1), 300000},
		{"one decimal", big.NewRat(-155, 10), -1550},
		{"zero", big.NewRat(0, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toMinorUnits(tt.amount))
		})
	}
}
