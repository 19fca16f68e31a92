package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/shelfctl/internal/authz"
	"github.com/me/shelfctl/pkg/model"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your issue requests and borrowed books (reader)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionViewBorrowHistory); err != nil {
				return err
			}

			recs, err := client.UserIssueInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch history: %w", err)
			}
			if len(recs) == 0 {
				fmt.Println("No issue requests yet.")
				return nil
			}

			fmt.Printf("%-16s  %-32s  %-9s  %s\n", "ISBN", "BOOK", "STATUS", "DUE")
			for _, rec := range recs {
				fmt.Printf("%-16s  %-32s  %-9s  %s\n",
					rec.ISBN, trim(rec.BookName, 32), rec.Status, dueColumn(rec))
			}
			return nil
		},
	}
}

// dueColumn renders the return deadline of a record relative to now, e.g.
// "in 6 days" or "3 days ago" for an overdue copy.
func dueColumn(rec model.IssueRecord) string {
	if rec.Returned() {
		return "returned " + humanize.Time(*rec.ReturnDate)
	}
	if rec.Status != model.StatusApprove || rec.ExpectedReturnDate == nil {
		return "-"
	}
	return humanize.Time(*rec.ExpectedReturnDate)
}
