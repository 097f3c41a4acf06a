package receivables

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/concilia-dev/concilia/internal/model"
)

// Header is the CSV header for receivables.csv.
const Header = "id,description,amount,due_date,status,customer,order_ref"

const (
	numFields   = 7
	dateFormat  = "2006-01-02"
	colID       = 0
	colDesc     = 1
	colAmount   = 2
	colDueDate  = 3
	colStatus   = 4
	colCustomer = 5
	colOrderRef = 6
)

// ReadReceivables reads all rows from a receivables.csv reader.
func ReadReceivables(r io.Reader) ([]model.Receivable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading receivables CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var recs []model.Receivable
	for i, rec := range records[1:] {
		rcv, err := UnmarshalReceivable(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rcv)
	}
	return recs, nil
}

// WriteReceivables writes receivables to a CSV writer (including header).
func WriteReceivables(w io.Writer, recs []model.Receivable) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rcv := range recs {
		if err := cw.Write(MarshalReceivable(rcv)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalReceivable converts a Receivable to a CSV row.
func MarshalReceivable(r model.Receivable) []string {
	row := make([]string, numFields)
	row[colID] = r.ID
	row[colDesc] = r.Description
	row[colAmount] = r.Amount.StringFixed(2)
	if !r.DueDate.IsZero() {
		row[colDueDate] = r.DueDate.Format(dateFormat)
	}
	row[colStatus] = string(r.Status)
	row[colCustomer] = r.Customer
	row[colOrderRef] = r.OrderRef
	return row
}

// UnmarshalReceivable converts a CSV row to a Receivable.
func UnmarshalReceivable(record []string) (model.Receivable, error) {
	if len(record) != numFields {
		return model.Receivable{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Receivable{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	if amount.IsNegative() {
		return model.Receivable{}, fmt.Errorf("negative amount %q", record[colAmount])
	}

	var dueDate time.Time
	if record[colDueDate] != "" {
		dueDate, err = time.Parse(dateFormat, record[colDueDate])
		if err != nil {
			return model.Receivable{}, fmt.Errorf("parsing due_date %q: %w", record[colDueDate], err)
		}
	}

	return model.Receivable{
		ID:          record[colID],
		Description: record[colDesc],
		Amount:      amount,
		DueDate:     dueDate,
		Status:      model.ReceivableStatus(record[colStatus]),
		Customer:    record[colCustomer],
		OrderRef:    record[colOrderRef],
	}, nil
}
