package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/receivables"
)

func newReceivablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receivables",
		Short: "Manage the receivables book",
	}
	cmd.AddCommand(newReceivablesListCommand())
	cmd.AddCommand(newReceivablesAddCommand())
	return cmd
}

func newReceivablesListCommand() *cobra.Command {
	var repoDir string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open receivables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, book, err := loadProject(repoDir)
			if err != nil {
				return err
			}

			recs := book.Open()
			if all {
				recs = book.All()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDESCRIPTION\tAMOUNT\tDUE\tSTATUS")
			for _, r := range recs {
				due := "-"
				if !r.DueDate.IsZero() {
					due = r.DueDate.Format("2006-01-02")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, truncate(r.Description, 40), r.Amount.StringFixed(2), due, r.Status)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().BoolVar(&all, "all", false, "include paid receivables")

	return cmd
}

func newReceivablesAddCommand() *cobra.Command {
	var repoDir string
	var id, desc, amount, due, customer, orderRef string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a receivable to the book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, _, book, err := loadProject(repoDir)
			if err != nil {
				return err
			}

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			if amt.IsNegative() {
				return fmt.Errorf("amount must not be negative")
			}

			var dueDate time.Time
			if due != "" {
				dueDate, err = time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("parsing due date %q: %w", due, err)
				}
			}

			if _, exists := book.Get(id); exists {
				return fmt.Errorf("receivable %s already exists", id)
			}

			updated := receivables.NewService(append(book.All(), model.Receivable{
				ID:          id,
				Description: desc,
				Amount:      amt,
				DueDate:     dueDate,
				Status:      model.ReceivablePending,
				Customer:    customer,
				OrderRef:    orderRef,
			}))
			if err := updated.Save(absDir); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added receivable %s (%s)\n", id, amt.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&id, "id", "", "receivable id (required)")
	_ = cmd.MarkFlagRequired("id")
	cmd.Flags().StringVar(&desc, "description", "", "counterpart name or order reference")
	cmd.Flags().StringVar(&amount, "amount", "", "expected amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&due, "due", "", "expected settlement date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&orderRef, "order", "", "order reference")

	return cmd
}
