package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableStatus is the payment state of an open receivable.
type ReceivableStatus string

const (
	ReceivablePending ReceivableStatus = "pending"
	ReceivableOverdue ReceivableStatus = "overdue"
	ReceivablePaid    ReceivableStatus = "paid"
)

// Receivable is an open invoice or order expected to be paid. Status is
// informational only; the matcher assumes its input is already filtered to
// unpaid items.
type Receivable struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time // zero value = no due date
	Status      ReceivableStatus
	Customer    string
	OrderRef    string
}

// Open reports whether the receivable still awaits payment.
func (r Receivable) Open() bool {
	return r.Status == ReceivablePending || r.Status == ReceivableOverdue
}
