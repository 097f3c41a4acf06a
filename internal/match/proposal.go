package match

import (
	"fmt"

	"github.com/concilia-dev/concilia/internal/model"
)

// Override replaces the selected candidate with the listed candidate whose
// receivable ID matches, marking the proposal matched. The chosen ID must
// be one of the proposal's own candidates.
func Override(p *model.MatchProposal, receivableID string) error {
	for i := range p.Candidates {
		if p.Candidates[i].ReceivableID == receivableID {
			p.Selected = &p.Candidates[i]
			p.State = model.MatchMatched
			return nil
		}
	}
	return fmt.Errorf("receivable %s is not a candidate for this transaction", receivableID)
}

// Skip clears the selection and marks the proposal as skipped by the
// reviewer.
func Skip(p *model.MatchProposal) {
	p.Selected = nil
	p.State = model.MatchSkipped
}

// SelectedIDs returns the receivable IDs of all matched proposals, in
// proposal order. This is the payload for the mark-paid confirmation step.
func SelectedIDs(proposals []model.MatchProposal) []string {
	var ids []string
	for _, p := range proposals {
		if p.State == model.MatchMatched && p.Selected != nil {
			ids = append(ids, p.Selected.ReceivableID)
		}
	}
	return ids
}
