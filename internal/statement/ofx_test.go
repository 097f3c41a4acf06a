package statement

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concilia-dev/concilia/internal/model"
)

func TestOFXParser_ParseTestdata(t *testing.T) {
	data, err := os.ReadFile("../../testdata/extrato.ofx")
	require.NoError(t, err)

	p := &OFXParser{}
	stmt, err := p.Parse(string(data))
	require.NoError(t, err)

	assert.Equal(t, "0341", stmt.BankID)
	assert.Equal(t, "12345-6", stmt.AccountID)
	assert.Equal(t, "CHECKING", stmt.AccountType)
	assert.Equal(t, "BRL", stmt.Currency)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), stmt.Start)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), stmt.End)
	assert.Equal(t, "3383.81", stmt.LedgerBalance.StringFixed(2))
	assert.Equal(t, "3371.81", stmt.AvailableBalance.StringFixed(2))

	// Sorted most recent first.
	require.Len(t, stmt.Transactions, 3)
	assert.Equal(t, 18, stmt.Transactions[0].Date.Day())
	assert.Equal(t, 15, stmt.Transactions[1].Date.Day())
	assert.Equal(t, 14, stmt.Transactions[2].Date.Day())
}

func TestOFXParser_Directions(t *testing.T) {
	data, err := os.ReadFile("../../testdata/extrato.ofx")
	require.NoError(t, err)

	stmt, err := (&OFXParser{}).Parse(string(data))
	require.NoError(t, err)

	// TRNTYPE OTHER with positive amount falls back to credit.
	ted := stmt.Transactions[0]
	assert.Equal(t, "OTHER", ted.Type)
	assert.Equal(t, model.DirectionCredit, ted.Direction)
	assert.Equal(t, "2500.00", ted.Amount.StringFixed(2))

	pix := stmt.Transactions[1]
	assert.Equal(t, model.DirectionCredit, pix.Direction)
	assert.Equal(t, "20240315001", pix.SourceRef)

	// DEBIT with negative amount: magnitude kept, direction from code.
	boleto := stmt.Transactions[2]
	assert.Equal(t, model.DirectionDebit, boleto.Direction)
	assert.True(t, boleto.Amount.IsPositive())
	assert.Equal(t, "000123", boleto.CheckNum)
}

func TestOFXParser_DescriptionCleanup(t *testing.T) {
	data, err := os.ReadFile("../../testdata/extrato.ofx")
	require.NoError(t, err)

	stmt, err := (&OFXParser{}).Parse(string(data))
	require.NoError(t, err)

	// "*PIX RECEBIDO   ACME LTDA-" has padding stripped and whitespace
	// runs collapsed.
	assert.Equal(t, "PIX RECEBIDO ACME LTDA", stmt.Transactions[1].Description)

	// NAME and MEMO joined.
	assert.Equal(t, "PAGTO FORNECEDOR BOLETO 4471", stmt.Transactions[2].Description)
}

func TestOFXParser_GeneratedFITID(t *testing.T) {
	data, err := os.ReadFile("../../testdata/extrato.ofx")
	require.NoError(t, err)

	stmt, err := (&OFXParser{}).Parse(string(data))
	require.NoError(t, err)

	// The TED block carries no FITID; the parser generates one.
	assert.True(t, strings.HasPrefix(stmt.Transactions[0].SourceRef, "gen-"))
}

func TestOFXParser_MissingMarker(t *testing.T) {
	_, err := (&OFXParser{}).Parse("OFXHEADER:100\nDATA:OFXSGML\n")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageFormat, perr.Stage)
	assert.Contains(t, perr.Msg, "malformed OFX")
}

func TestOFXParser_NoTransactions(t *testing.T) {
	_, err := (&OFXParser{}).Parse("<OFX><BANKTRANLIST></BANKTRANLIST></OFX>")

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageEmpty, perr.Stage)
}

func TestOFXParser_ZeroAmountDropped(t *testing.T) {
	content := "<OFX><STMTTRN><TRNTYPE>CREDIT\n<DTPOSTED>20240315\n<TRNAMT>0.00\n<FITID>1\n</STMTTRN>" +
		"<STMTTRN><TRNTYPE>CREDIT\n<DTPOSTED>20240316\n<TRNAMT>10.00\n<FITID>2\n</STMTTRN></OFX>"
	stmt, err := (&OFXParser{}).Parse(content)
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "2", stmt.Transactions[0].SourceRef)
}

func TestOFXParser_BadDateDropped(t *testing.T) {
	content := "<OFX><STMTTRN><TRNTYPE>CREDIT\n<DTPOSTED>2024\n<TRNAMT>10.00\n<FITID>1\n</STMTTRN>" +
		"<STMTTRN><TRNTYPE>CREDIT\n<DTPOSTED>20240316\n<TRNAMT>10.00\n<FITID>2\n</STMTTRN></OFX>"
	stmt, err := (&OFXParser{}).Parse(content)
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 1)
}

func TestParseOFXDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  time.Time
	}{
		{"20240315", true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"20240315143000[-03:EST]", true, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"20240315143000", true, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"20240315[-03:EST]", true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024031", false, time.Time{}},
		{"", false, time.Time{}},
		{"notadate", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := parseOFXDate(tt.input)
		require.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "input %q: got %s", tt.input, got)
		}
	}
}

func TestClassifyDirection(t *testing.T) {
	ten := decimal.NewFromInt(10)
	tests := []struct {
		trnType string
		amount  decimal.Decimal
		want    model.Direction
	}{
		{"CREDIT", ten.Neg(), model.DirectionCredit},
		{"DEP", ten, model.DirectionCredit},
		{"INT", ten, model.DirectionCredit},
		{"DIV", ten, model.DirectionCredit},
		{"DEBIT", ten, model.DirectionDebit},
		{"CHECK", ten, model.DirectionDebit},
		{"FEE", ten, model.DirectionDebit},
		{"PAYMENT", ten, model.DirectionDebit},
		{"OTHER", ten, model.DirectionCredit},
		{"OTHER", ten.Neg(), model.DirectionDebit},
		{"", ten, model.DirectionCredit},
	}
	for _, tt := range tests {
		got := classifyDirection(tt.trnType, tt.amount)
		assert.Equal(t, tt.want, got, "type %q amount %s", tt.trnType, tt.amount)
	}
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "ACME LTDA", cleanDescription("**ACME   LTDA**", ""))
	assert.Equal(t, "ACME", cleanDescription("ACME", "acme"))
	assert.Equal(t, "ACME REF 1", cleanDescription("ACME", "REF 1"))
	assert.Equal(t, "MEMO ONLY", cleanDescription("", "MEMO ONLY"))
	assert.Equal(t, "", cleanDescription("", ""))
}

func TestTagValue(t *testing.T) {
	s := "<BANKID>0341\n<ACCTID>12345-6<ACCTTYPE>CHECKING\n"
	assert.Equal(t, "0341", tagValue(s, "BANKID"))
	assert.Equal(t, "12345-6", tagValue(s, "ACCTID"))
	assert.Equal(t, "CHECKING", tagValue(s, "ACCTTYPE"))
	assert.Equal(t, "", tagValue(s, "CURDEF"))
}
