package model

import "github.com/shopspring/decimal"

// Confidence classifies how close a candidate amount is to the transaction.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// tierRank orders confidence tiers for sorting, best first.
var tierRank = map[Confidence]int{
	ConfidenceHigh:   0,
	ConfidenceMedium: 1,
	ConfidenceLow:    2,
}

// Rank returns the sort rank of the tier (high sorts first).
func (c Confidence) Rank() int { return tierRank[c] }

// MatchState is the review state of a proposal.
type MatchState string

const (
	MatchUnmatched MatchState = "unmatched"
	MatchMatched   MatchState = "matched"
	MatchSkipped   MatchState = "skipped"
)

// MatchCandidate is one ranked receivable candidate for a credit transaction.
type MatchCandidate struct {
	ReceivableID string
	Confidence   Confidence
	PercentDiff  decimal.Decimal // absolute relative amount deviation, percent
	Reason       string
}

// MatchProposal pairs a statement transaction with its ranked candidates.
// Proposals are transient, recomputed on every run; only confirmed
// receivable IDs are ever persisted.
type MatchProposal struct {
	Transaction BankTransaction
	Candidates  []MatchCandidate
	Selected    *MatchCandidate // nil unless auto-selected or overridden
	State       MatchState
}
