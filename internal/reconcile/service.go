// Package reconcile wires the statement normalizer, the matcher, and the
// receivables book into the upload -> propose -> confirm workflow. The
// normalizer and matcher stay pure; all file and git I/O lives here.
package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/concilia-dev/concilia/internal/auditlog"
	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/gitops"
	"github.com/concilia-dev/concilia/internal/match"
	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/receivables"
	"github.com/concilia-dev/concilia/internal/statement"
)

// Service runs reconciliations against one project directory.
type Service struct {
	repoRoot string
	cfg      *config.Config
	book     *receivables.Service
}

// NewService creates a reconcile Service.
func NewService(repoRoot string, cfg *config.Config, book *receivables.Service) *Service {
	return &Service{repoRoot: repoRoot, cfg: cfg, book: book}
}

// Run reads a statement file, normalizes it, and matches every credit
// against the open receivables. Proposals are transient; nothing is
// persisted until Confirm.
func (s *Service) Run(statementPath string) ([]model.MatchProposal, error) {
	stmt, err := s.Normalize(statementPath)
	if err != nil {
		return nil, err
	}
	return s.MatchStatement(stmt), nil
}

// MatchStatement matches an already-normalized statement against the open
// receivables using the configured thresholds.
func (s *Service) MatchStatement(stmt *model.Statement) []model.MatchProposal {
	return match.Match(stmt.Transactions, s.book.Open(), s.cfg.Matching.MatchConfig())
}

// Normalize reads and parses a statement file, honoring any column
// mapping override from concilia.yaml.
func (s *Service) Normalize(statementPath string) (*model.Statement, error) {
	content, err := os.ReadFile(statementPath)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	name := filepath.Base(statementPath)
	if mapping := s.cfg.Columns.Mapping(); mapping != nil && statement.DetectFormat(string(content), name) == "csv" {
		p := &statement.CSVParser{Mapping: mapping}
		return p.Parse(string(content))
	}
	return statement.Normalize(string(content), name)
}

// Confirm marks the matched proposals' receivables paid, saves the book,
// appends to the reconcile log, and commits when git auto-commit is on.
// Proposal state is only trusted after MarkPaid succeeds, so a failed
// confirmation leaves the book untouched and retryable.
func (s *Service) Confirm(statementName string, proposals []model.MatchProposal) (int, error) {
	ids := match.SelectedIDs(proposals)
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.book.MarkPaid(ids); err != nil {
		return 0, fmt.Errorf("marking receivables paid: %w", err)
	}
	if err := s.book.Save(s.repoRoot); err != nil {
		return 0, fmt.Errorf("saving receivables book: %w", err)
	}

	hash := ""
	if s.cfg.Git.AutoCommit && gitops.IsRepo(s.repoRoot) {
		msg := fmt.Sprintf("reconcile: %s (%d receivables paid)", statementName, len(ids))
		h, err := gitops.CommitPaths(s.repoRoot, msg, s.cfg.Git.AuthorName, s.cfg.Git.AuthorEmail, receivables.BookPath)
		if err != nil {
			return 0, fmt.Errorf("committing book: %w", err)
		}
		hash = h
	}

	now := time.Now()
	var entries []auditlog.Entry
	for _, p := range proposals {
		if p.State != model.MatchMatched || p.Selected == nil {
			continue
		}
		entries = append(entries, auditlog.Entry{
			Timestamp:    now,
			Statement:    statementName,
			SourceRef:    p.Transaction.SourceRef,
			ReceivableID: p.Selected.ReceivableID,
			Amount:       p.Transaction.Amount.StringFixed(2),
			CommitHash:   hash,
		})
	}
	if err := auditlog.Append(s.repoRoot, entries); err != nil {
		return 0, fmt.Errorf("writing reconcile log: %w", err)
	}

	return len(ids), nil
}
