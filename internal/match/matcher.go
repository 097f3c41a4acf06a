// Package match ranks open receivables against statement credits by amount
// proximity and proposes the near-certain ones for auto-confirmation.
package match

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/concilia-dev/concilia/internal/model"
)

// Config holds the matching thresholds. All values are percentages of the
// receivable amount except MaxCandidates.
type Config struct {
	// TolerancePercent is the widest deviation still listed as a candidate.
	TolerancePercent decimal.Decimal
	// HighCutoff is the deviation below which a candidate is high
	// confidence and eligible for auto-selection.
	HighCutoff decimal.Decimal
	// MediumCutoff is the deviation below which a candidate is medium
	// confidence; between MediumCutoff and TolerancePercent is low.
	MediumCutoff decimal.Decimal
	// MaxCandidates caps the ranked list per transaction.
	MaxCandidates int
}

// DefaultConfig returns the stock 5% / 2% / 0.01% thresholds with a
// five-candidate cap. Statement amounts drift from invoice amounts by
// small fees and rounding, so the band is deliberately generous.
func DefaultConfig() Config {
	return Config{
		TolerancePercent: decimal.NewFromFloat(5.0),
		HighCutoff:       decimal.NewFromFloat(0.01),
		MediumCutoff:     decimal.NewFromFloat(2.0),
		MaxCandidates:    5,
	}
}

var hundred = decimal.NewFromInt(100)

// Match produces one proposal per input transaction, preserving input
// order. Only credit transactions are matched; debits pass through with an
// empty candidate list. Receivables are assumed pre-filtered to open items.
func Match(txns []model.BankTransaction, receivables []model.Receivable, cfg Config) []model.MatchProposal {
	proposals := make([]model.MatchProposal, 0, len(txns))
	for _, txn := range txns {
		proposals = append(proposals, propose(txn, receivables, cfg))
	}
	return proposals
}

func propose(txn model.BankTransaction, receivables []model.Receivable, cfg Config) model.MatchProposal {
	proposal := model.MatchProposal{Transaction: txn, State: model.MatchUnmatched}
	if txn.Direction != model.DirectionCredit {
		return proposal
	}

	for _, r := range receivables {
		diff := percentDiff(r.Amount, txn.Amount)
		if diff.GreaterThan(cfg.TolerancePercent) {
			continue
		}
		tier := classify(diff, cfg)
		proposal.Candidates = append(proposal.Candidates, model.MatchCandidate{
			ReceivableID: r.ID,
			Confidence:   tier,
			PercentDiff:  diff,
			Reason:       reason(tier, diff),
		})
	}

	// Stable sort keeps original receivable order within a tier. Ties are
	// deliberately not broken by due date or description similarity.
	sort.SliceStable(proposal.Candidates, func(i, j int) bool {
		return proposal.Candidates[i].Confidence.Rank() < proposal.Candidates[j].Confidence.Rank()
	})
	if len(proposal.Candidates) > cfg.MaxCandidates {
		proposal.Candidates = proposal.Candidates[:cfg.MaxCandidates]
	}

	if len(proposal.Candidates) > 0 && proposal.Candidates[0].Confidence == model.ConfidenceHigh {
		proposal.Selected = &proposal.Candidates[0]
		proposal.State = model.MatchMatched
	}
	return proposal
}

// percentDiff is |receivable - transaction| / receivable * 100. A zero
// receivable amount is treated as 100% off, never a plausible match.
func percentDiff(receivable, transaction decimal.Decimal) decimal.Decimal {
	if receivable.IsZero() {
		return hundred
	}
	return receivable.Sub(transaction).Abs().Div(receivable).Mul(hundred)
}

func classify(diff decimal.Decimal, cfg Config) model.Confidence {
	switch {
	case diff.LessThan(cfg.HighCutoff):
		return model.ConfidenceHigh
	case diff.LessThan(cfg.MediumCutoff):
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func reason(tier model.Confidence, diff decimal.Decimal) string {
	switch tier {
	case model.ConfidenceHigh:
		return "exact value"
	case model.ConfidenceMedium:
		return fmt.Sprintf("close value, %s%% difference", diff.Round(2))
	default:
		return fmt.Sprintf("value with %s%% difference", diff.Round(2))
	}
}
