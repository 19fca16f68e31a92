package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessions.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := sessions.Current()
			if !ok {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("%s <%s>\nRole: %s\n", sess.DisplayName(), sess.Email, sess.Role)
			return nil
		},
	}
}
