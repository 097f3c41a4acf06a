package statement

import (
	"encoding/csv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/concilia-dev/concilia/internal/id"
	"github.com/concilia-dev/concilia/internal/model"
)

// ColumnRole is a semantic role a statement CSV column can play.
type ColumnRole string

const (
	RoleDate        ColumnRole = "date"
	RoleDescription ColumnRole = "description"
	RoleAmount      ColumnRole = "amount" // single signed column
	RoleCredit      ColumnRole = "credit" // separate inflow column
	RoleDebit       ColumnRole = "debit"  // separate outflow column
)

// ColumnMapping maps column roles to header names. Produced by
// DetectColumns, or supplied by the caller when detection fails and the
// user maps columns by hand.
type ColumnMapping map[ColumnRole]string

// roleSynonyms lists header substrings that identify each role, matched
// case-insensitive and accent-stripped. First matching header wins.
var roleSynonyms = map[ColumnRole][]string{
	RoleDate:        {"data", "date", "dt"},
	RoleDescription: {"descricao", "description", "historico", "lancamento", "memo", "detalhe"},
	RoleAmount:      {"valor", "amount", "value", "montante"},
	RoleCredit:      {"credito", "credit", "entrada", "deposito"},
	RoleDebit:       {"debito", "debit", "saida", "retirada"},
}

// CSVParser parses delimited statement exports with heuristic column
// detection. Set Mapping to bypass detection with an explicit mapping.
type CSVParser struct {
	Mapping ColumnMapping
}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a delimited statement and returns the normalized Statement.
// Rows that fail date or amount resolution are dropped silently; only a
// file with zero surviving rows is an error.
func (p *CSVParser) Parse(content string) (*model.Statement, error) {
	cr := csv.NewReader(strings.NewReader(content))
	cr.Comma = detectDelimiter(content)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, parseErrf(StageFormat, "reading CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, parseErrf(StageEmpty, "empty file")
	}

	mapping := p.Mapping
	if mapping == nil {
		mapping = DetectColumns(records[0])
	}
	cols, err := resolveIndexes(records[0], mapping)
	if err != nil {
		return nil, err
	}

	if len(records) <= 1 {
		return nil, parseErrf(StageEmpty, "empty file")
	}

	var txns []model.BankTransaction
	for _, rec := range records[1:] {
		txn, ok := resolveRow(rec, cols)
		if !ok {
			continue
		}
		txns = append(txns, txn)
	}

	if len(txns) == 0 {
		return nil, parseErrf(StageEmpty, "no usable rows")
	}
	return &model.Statement{Transactions: txns}, nil
}

// DetectColumns inspects the header row and assigns a header name to each
// role it can identify. Roles with no matching header are absent from the
// returned mapping.
func DetectColumns(header []string) ColumnMapping {
	mapping := make(ColumnMapping)
	for role, synonyms := range roleSynonyms {
		for _, h := range header {
			if matchesRole(h, synonyms) {
				mapping[role] = h
				break
			}
		}
	}
	return mapping
}

func matchesRole(header string, synonyms []string) bool {
	normalized := stripAccents(strings.ToLower(strings.TrimSpace(header)))
	for _, syn := range synonyms {
		if strings.Contains(normalized, syn) {
			return true
		}
	}
	return false
}

// accentReplacer folds the accented characters that show up in Brazilian
// bank headers. Full Unicode folding is overkill for a header heuristic.
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

func stripAccents(s string) string {
	return accentReplacer.Replace(s)
}

// columnIndexes is the typed intermediate representation between column
// detection and row resolution: role -> header index, -1 when absent.
type columnIndexes struct {
	date, desc, amount, credit, debit int
}

func resolveIndexes(header []string, mapping ColumnMapping) (columnIndexes, error) {
	cols := columnIndexes{date: -1, desc: -1, amount: -1, credit: -1, debit: -1}
	find := func(role ColumnRole) int {
		name, ok := mapping[role]
		if !ok {
			return -1
		}
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
				return i
			}
		}
		return -1
	}
	cols.date = find(RoleDate)
	cols.desc = find(RoleDescription)
	cols.amount = find(RoleAmount)
	cols.credit = find(RoleCredit)
	cols.debit = find(RoleDebit)

	if cols.date < 0 {
		return cols, parseErrf(StageColumns, "unmappable columns: no date column")
	}
	if cols.amount < 0 && cols.credit < 0 {
		return cols, parseErrf(StageColumns, "unmappable columns: no amount or credit column")
	}
	return cols, nil
}

func resolveRow(rec []string, cols columnIndexes) (model.BankTransaction, bool) {
	date, ok := parseRowDate(field(rec, cols.date))
	if !ok {
		return model.BankTransaction{}, false
	}

	amount, direction, ok := resolveRowAmount(rec, cols)
	if !ok {
		return model.BankTransaction{}, false
	}

	desc := strings.TrimSpace(field(rec, cols.desc))
	return model.BankTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Direction:   direction,
		SourceRef:   id.FormatSourceRef("csv", date, desc),
	}, true
}

func resolveRowAmount(rec []string, cols columnIndexes) (decimal.Decimal, model.Direction, bool) {
	if cols.amount >= 0 {
		v, err := ParseBrazilianDecimal(field(rec, cols.amount))
		if err != nil || v.IsZero() {
			return decimal.Zero, "", false
		}
		if v.IsNegative() {
			return v.Abs(), model.DirectionDebit, true
		}
		return v, model.DirectionCredit, true
	}

	if credit, err := ParseBrazilianDecimal(field(rec, cols.credit)); err == nil && !credit.IsZero() {
		return credit.Abs(), model.DirectionCredit, true
	}
	if cols.debit >= 0 {
		if debit, err := ParseBrazilianDecimal(field(rec, cols.debit)); err == nil && !debit.IsZero() {
			return debit.Abs(), model.DirectionDebit, true
		}
	}
	return decimal.Zero, "", false
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// parseRowDate accepts DD/MM/YYYY, DD/MM/YY (two-digit years get a "20"
// prefix) and ISO YYYY-MM-DD. Anything else drops the row.
func parseRowDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	if len(parts[2]) == 2 {
		parts[2] = "20" + parts[2]
	}
	t, err := time.Parse("02/01/2006", strings.Join(parts, "/"))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// detectDelimiter picks between comma and the semicolon common in Brazilian
// exports, judged on the header line only.
func detectDelimiter(content string) rune {
	line := content
	if i := strings.IndexAny(content, "\r\n"); i >= 0 {
		line = content[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
