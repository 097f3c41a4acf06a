package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a fully normalized bank statement: account metadata (when the
// source format carries it) plus transactions sorted most recent first.
type Statement struct {
	BankID      string
	AccountID   string
	AccountType string
	Currency    string

	Start time.Time
	End   time.Time

	LedgerBalance    decimal.Decimal
	AvailableBalance decimal.Decimal

	Transactions []BankTransaction
}
