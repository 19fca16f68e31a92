package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/shelfctl/internal/authz"
	"github.com/me/shelfctl/internal/issueflow"
)

func newRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request <isbn>",
		Short: "Raise an issue request for a book (reader)",
		Long:  "Ask the library to issue a book. At most four requests may be active at once.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionSubmitIssueRequest); err != nil {
				return err
			}

			tracker := issueflow.NewTracker(client)
			if err := tracker.Refresh(cmd.Context()); err != nil {
				return err
			}

			msg, err := tracker.Submit(cmd.Context(), args[0])
			switch {
			case errors.Is(err, issueflow.ErrQuotaExceeded):
				return fmt.Errorf("you already have %d active requests; wait for one to be decided or returned", tracker.ActiveCount())
			case errors.Is(err, issueflow.ErrDuplicateRequest):
				return errors.New("you already have an open request for this book")
			case err != nil:
				return fmt.Errorf("submit request: %w", err)
			}

			fmt.Println(msg)
			return nil
		},
	}
}
