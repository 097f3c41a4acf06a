package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/reconcile"
	"github.com/concilia-dev/concilia/internal/statement"
)

func newMatchCommand() *cobra.Command {
	var repoDir string
	var forceFormat string
	var columns []string

	cmd := &cobra.Command{
		Use:   "match <statement-file>",
		Short: "Match a bank statement against open receivables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, cfg, book, err := loadProject(repoDir)
			if err != nil {
				return err
			}
			if err := applyColumnOverrides(&cfg.Columns, columns); err != nil {
				return err
			}

			svc := reconcile.NewService(absDir, cfg, book)
			proposals, err := runMatch(svc, args[0], forceFormat)
			if err != nil {
				return err
			}

			printProposals(cmd.OutOrStdout(), proposals)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&forceFormat, "format", "", "force statement format (csv or ofx) instead of detecting")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "CSV column overrides as role=header (roles: date, description, amount, credit, debit)")

	return cmd
}

func applyColumnOverrides(cols *config.ColumnsConfig, overrides []string) error {
	for _, o := range overrides {
		role, header, ok := strings.Cut(o, "=")
		if !ok || header == "" {
			return fmt.Errorf("invalid column override %q, expected role=header", o)
		}
		switch strings.ToLower(strings.TrimSpace(role)) {
		case "date":
			cols.Date = header
		case "description":
			cols.Description = header
		case "amount":
			cols.Amount = header
		case "credit":
			cols.Credit = header
		case "debit":
			cols.Debit = header
		default:
			return fmt.Errorf("unknown column role %q", role)
		}
	}
	return nil
}

func runMatch(svc *reconcile.Service, path, forceFormat string) ([]model.MatchProposal, error) {
	if forceFormat == "" {
		return svc.Run(path)
	}

	p := statement.DefaultRegistry().Get(forceFormat)
	if p == nil {
		return nil, fmt.Errorf("unknown statement format %q", forceFormat)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	stmt, err := p.Parse(string(content))
	if err != nil {
		return nil, err
	}
	return svc.MatchStatement(stmt), nil
}

func printProposals(w io.Writer, proposals []model.MatchProposal) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tAMOUNT\tDIR\tSTATE\tBEST CANDIDATE")
	for _, p := range proposals {
		best := "-"
		if len(p.Candidates) > 0 {
			c := p.Candidates[0]
			best = fmt.Sprintf("%s (%s, %s)", c.ReceivableID, c.Confidence, c.Reason)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Transaction.Date.Format("2006-01-02"),
			truncate(p.Transaction.Description, 32),
			p.Transaction.Amount.StringFixed(2),
			p.Transaction.Direction,
			p.State,
			best,
		)
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
