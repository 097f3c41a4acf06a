package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether money moved in or out of the account.
type Direction string

const (
	DirectionCredit Direction = "credit" // money received
	DirectionDebit  Direction = "debit"  // money paid out
)

// BankTransaction is one normalized statement movement. Amount is always a
// non-negative magnitude; Direction carries the economic sign.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Direction   Direction

	// SourceRef points back at the original row or OFX record (FITID when
	// the statement carries one). Kept for audit output, never matched on.
	SourceRef string

	// OFX-only fields, empty for CSV statements.
	Type     string // TRNTYPE code as exported by the bank
	CheckNum string
	RefNum   string
}

// Signed returns the amount with the debit sign applied.
func (t BankTransaction) Signed() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
