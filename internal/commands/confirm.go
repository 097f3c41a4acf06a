package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/concilia-dev/concilia/internal/match"
	"github.com/concilia-dev/concilia/internal/reconcile"
)

func newConfirmCommand() *cobra.Command {
	var repoDir string
	var dryRun bool
	var skip []string

	cmd := &cobra.Command{
		Use:   "confirm <statement-file>",
		Short: "Mark auto-matched receivables as paid",
		Long: "Matches the statement against open receivables and persists the\n" +
			"auto-selected high-confidence matches: the receivables book is updated,\n" +
			"the reconcile log appended, and the change committed when git\n" +
			"auto-commit is enabled.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, cfg, book, err := loadProject(repoDir)
			if err != nil {
				return err
			}

			svc := reconcile.NewService(absDir, cfg, book)
			proposals, err := svc.Run(args[0])
			if err != nil {
				return err
			}

			for i := range proposals {
				for _, ref := range skip {
					if proposals[i].Transaction.SourceRef == ref {
						match.Skip(&proposals[i])
					}
				}
			}

			if dryRun {
				printProposals(cmd.OutOrStdout(), proposals)
				fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d receivables would be marked paid\n", len(match.SelectedIDs(proposals)))
				return nil
			}

			n, err := svc.Confirm(filepath.Base(args[0]), proposals)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d receivables marked paid\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be confirmed without writing")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "source refs of transactions to leave unconfirmed")

	return cmd
}
