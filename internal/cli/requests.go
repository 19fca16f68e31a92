package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/shelfctl/internal/authz"
	"github.com/me/shelfctl/internal/issueflow"
	"github.com/me/shelfctl/pkg/model"
)

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Review and decide issue requests (admin)",
	}
	cmd.AddCommand(
		newRequestsListCmd(),
		newRequestsDecideCmd("approve", model.StatusApprove),
		newRequestsDecideCmd("reject", model.StatusReject),
	)
	return cmd
}

func newRequestsListCmd() *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the issue requests of your library",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionManageIssueRequests); err != nil {
				return err
			}

			reqs, err := client.ListIssueRequests(cmd.Context())
			if err != nil {
				return fmt.Errorf("list requests: %w", err)
			}
			if pendingOnly {
				kept := reqs[:0]
				for _, r := range reqs {
					if r.Status == model.StatusPending {
						kept = append(kept, r)
					}
				}
				reqs = kept
			}
			if len(reqs) == 0 {
				fmt.Println("No issue requests.")
				return nil
			}

			fmt.Printf("%-6s  %-16s  %-28s  %-20s  %-8s  %s\n",
				"ID", "ISBN", "BOOK", "READER", "STATUS", "DUE")
			for _, r := range reqs {
				due := "-"
				if d, ok := r.DueDate(); ok {
					due = d.Local().Format("2006-01-02 15:04")
				}
				fmt.Printf("%-6d  %-16s  %-28s  %-20s  %-8s  %s\n",
					r.ReqID, r.BookID, trim(r.BookName, 28), trim(r.ReaderName, 20), r.Status, due)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Show only undecided requests")
	return cmd
}

// newRequestsDecideCmd builds the approve and reject subcommands; both go
// through the decider so an approval always carries a due date of now
// plus the loan period.
func newRequestsDecideCmd(use string, outcome model.RequestStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <request-id>",
		Short: use + " a pending issue request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionManageIssueRequests); err != nil {
				return err
			}
			reqID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}

			decider := issueflow.NewDecider(client)
			msg, due, err := decider.Decide(cmd.Context(), reqID, outcome)
			if err != nil {
				return fmt.Errorf("%s request: %w", use, err)
			}

			fmt.Println(msg)
			if due != nil {
				fmt.Printf("Due %s\n", due.Local().Format("Mon, 02 Jan 2006 15:04"))
			}
			return nil
		},
	}
}
