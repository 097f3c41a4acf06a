// Package receivables is the plain-CSV book of open invoices the matcher
// draws candidates from, and the sink confirmed matches are written to.
package receivables

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/concilia-dev/concilia/internal/model"
)

// Service provides in-memory lookup over the receivables book.
type Service struct {
	receivables []model.Receivable
	byID        map[string]*model.Receivable
}

// NewService creates a Service from a slice of receivables.
func NewService(receivables []model.Receivable) *Service {
	s := &Service{receivables: receivables, byID: make(map[string]*model.Receivable, len(receivables))}
	for i := range s.receivables {
		s.byID[s.receivables[i].ID] = &s.receivables[i]
	}
	return s
}

// Load reads receivables.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(bookPath(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening receivables book: %w", err)
	}
	defer f.Close()

	recs, err := ReadReceivables(f)
	if err != nil {
		return nil, fmt.Errorf("reading receivables book: %w", err)
	}
	return NewService(recs), nil
}

// All returns all receivables, paid ones included.
func (s *Service) All() []model.Receivable {
	return s.receivables
}

// Open returns the receivables still awaiting payment. This is the
// pre-filtered candidate set handed to the matcher.
func (s *Service) Open() []model.Receivable {
	var open []model.Receivable
	for _, r := range s.receivables {
		if r.Open() {
			open = append(open, r)
		}
	}
	return open
}

// Get returns a receivable by ID.
func (s *Service) Get(id string) (model.Receivable, bool) {
	r, ok := s.byID[id]
	if !ok {
		return model.Receivable{}, false
	}
	return *r, true
}

// MarkPaid flips the given receivables to paid. Fails without mutating
// anything if any ID is unknown or already paid.
func (s *Service) MarkPaid(ids []string) error {
	for _, id := range ids {
		r, ok := s.byID[id]
		if !ok {
			return fmt.Errorf("unknown receivable %s", id)
		}
		if !r.Open() {
			return fmt.Errorf("receivable %s is already %s", id, r.Status)
		}
	}
	for _, id := range ids {
		s.byID[id].Status = model.ReceivablePaid
	}
	return nil
}

// Save writes the book back to receivables.csv.
func (s *Service) Save(repoRoot string) error {
	f, err := os.Create(bookPath(repoRoot))
	if err != nil {
		return fmt.Errorf("creating receivables book: %w", err)
	}
	defer f.Close()

	if err := WriteReceivables(f, s.receivables); err != nil {
		return fmt.Errorf("writing receivables book: %w", err)
	}
	return nil
}

// BookPath is the receivables book location relative to the repo root.
const BookPath = "receivables.csv"

func bookPath(repoRoot string) string {
	return filepath.Join(repoRoot, BookPath)
}
