package statement

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/concilia-dev/concilia/internal/id"
	"github.com/concilia-dev/concilia/internal/model"
)

// OFXParser parses OFX/QFX statement exports. OFX is SGML-ish, not XML:
// inline fields (<DTPOSTED>20240315) usually have no closing tag, while
// aggregate blocks (<STMTTRN>...</STMTTRN>) do. The parser therefore scans
// for tags rather than building a document tree.
type OFXParser struct{}

const (
	ofxMarker   = "<OFX>"
	trnOpen     = "<STMTTRN>"
	trnClose    = "</STMTTRN>"
	ofxDateOnly = "20060102"
	ofxDateTime = "20060102150405"
)

// creditCodes and debitCodes classify OFX TRNTYPE values. Codes in neither
// set fall back to the sign of the amount, which misclassifies statements
// from institutions that export unsigned amounts; see package tests.
var creditCodes = map[string]bool{
	"CREDIT": true, "DEP": true, "INT": true, "DIV": true,
}

var debitCodes = map[string]bool{
	"DEBIT": true, "CHECK": true, "FEE": true, "PAYMENT": true,
}

// Format returns the parser name.
func (p *OFXParser) Format() string { return "ofx" }

// Parse reads an OFX/QFX export and returns the normalized Statement with
// transactions sorted most recent first.
func (p *OFXParser) Parse(content string) (*model.Statement, error) {
	start := strings.Index(content, ofxMarker)
	if start < 0 {
		start = strings.Index(content, strings.ToLower(ofxMarker))
	}
	if start < 0 {
		return nil, parseErrf(StageFormat, "malformed OFX: missing %s marker", ofxMarker)
	}
	// Everything before <OFX> is the SGML header block; skip it.
	body := content[start:]

	stmt := &model.Statement{
		BankID:      tagValue(body, "BANKID"),
		AccountID:   tagValue(body, "ACCTID"),
		AccountType: tagValue(body, "ACCTTYPE"),
		Currency:    tagValue(body, "CURDEF"),
	}
	if t, ok := parseOFXDate(tagValue(body, "DTSTART")); ok {
		stmt.Start = t
	}
	if t, ok := parseOFXDate(tagValue(body, "DTEND")); ok {
		stmt.End = t
	}
	stmt.LedgerBalance = blockBalance(body, "LEDGERBAL")
	stmt.AvailableBalance = blockBalance(body, "AVAILBAL")

	for _, block := range transactionBlocks(body) {
		txn, ok := parseTransaction(block)
		if !ok {
			continue
		}
		stmt.Transactions = append(stmt.Transactions, txn)
	}

	if len(stmt.Transactions) == 0 {
		return nil, parseErrf(StageEmpty, "no transactions in statement")
	}

	sort.SliceStable(stmt.Transactions, func(i, j int) bool {
		return stmt.Transactions[i].Date.After(stmt.Transactions[j].Date)
	})
	return stmt, nil
}

// tagValue finds the first <TAG> occurrence and returns the text up to the
// next '<' or line break. Works for both terminated and unterminated tags.
func tagValue(s, tag string) string {
	marker := "<" + tag + ">"
	i := strings.Index(s, marker)
	if i < 0 {
		return ""
	}
	rest := s[i+len(marker):]
	if end := strings.IndexAny(rest, "<\r\n"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// blockBalance extracts the BALAMT inside a balance aggregate such as
// <LEDGERBAL>. The amount must be scoped to the block, otherwise the first
// BALAMT in the file would win for both balances.
func blockBalance(s, block string) decimal.Decimal {
	i := strings.Index(s, "<"+block+">")
	if i < 0 {
		return decimal.Zero
	}
	scope := s[i:]
	if end := strings.Index(scope, "</"+block+">"); end >= 0 {
		scope = scope[:end]
	}
	v, err := parseOFXAmount(tagValue(scope, "BALAMT"))
	if err != nil {
		return decimal.Zero
	}
	return v
}

func transactionBlocks(s string) []string {
	var blocks []string
	for {
		i := strings.Index(s, trnOpen)
		if i < 0 {
			return blocks
		}
		s = s[i+len(trnOpen):]
		end := strings.Index(s, trnClose)
		if end < 0 {
			// Unclosed trailing block; take what remains.
			blocks = append(blocks, s)
			return blocks
		}
		blocks = append(blocks, s[:end])
		s = s[end+len(trnClose):]
	}
}

func parseTransaction(block string) (model.BankTransaction, bool) {
	date, ok := parseOFXDate(tagValue(block, "DTPOSTED"))
	if !ok {
		return model.BankTransaction{}, false
	}

	amount, err := parseOFXAmount(tagValue(block, "TRNAMT"))
	if err != nil || amount.IsZero() {
		return model.BankTransaction{}, false
	}

	fitid := tagValue(block, "FITID")
	if fitid == "" {
		fitid = id.NewFITID()
	}

	trnType := strings.ToUpper(tagValue(block, "TRNTYPE"))
	return model.BankTransaction{
		Date:        date,
		Description: cleanDescription(tagValue(block, "NAME"), tagValue(block, "MEMO")),
		Amount:      amount.Abs(),
		Direction:   classifyDirection(trnType, amount),
		SourceRef:   fitid,
		Type:        trnType,
		CheckNum:    tagValue(block, "CHECKNUM"),
		RefNum:      tagValue(block, "REFNUM"),
	}, true
}

func classifyDirection(trnType string, amount decimal.Decimal) model.Direction {
	switch {
	case creditCodes[trnType]:
		return model.DirectionCredit
	case debitCodes[trnType]:
		return model.DirectionDebit
	case amount.IsNegative():
		return model.DirectionDebit
	default:
		return model.DirectionCredit
	}
}

// parseOFXDate parses the fixed-width YYYYMMDD[HHMMSS] format, stripping
// any bracketed timezone suffix ("20240315143000[-03:EST]").
func parseOFXDate(s string) (time.Time, bool) {
	if i := strings.Index(s, "["); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	digits := len(s)
	for i, r := range s {
		if r < '0' || r > '9' {
			digits = i
			break
		}
	}
	s = s[:digits]

	switch {
	case len(s) >= 14:
		t, err := time.Parse(ofxDateTime, s[:14])
		return t, err == nil
	case len(s) >= 8:
		t, err := time.Parse(ofxDateOnly, s[:8])
		return t, err == nil
	default:
		return time.Time{}, false
	}
}

// parseOFXAmount handles both the standard dot decimal and the comma
// decimal some banks emit.
func parseOFXAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return decimal.NewFromString(s)
}

// cleanDescription joins NAME and MEMO, collapses whitespace runs, and
// strips the asterisk/hyphen padding banks decorate payee names with.
func cleanDescription(name, memo string) string {
	desc := name
	if memo != "" && !strings.EqualFold(memo, name) {
		if desc != "" {
			desc += " "
		}
		desc += memo
	}
	desc = strings.Join(strings.Fields(desc), " ")
	return strings.Trim(desc, "*- \t")
}
