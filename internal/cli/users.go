package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/shelfctl/internal/authz"
)

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the members of your library (owner)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionManageUsers); err != nil {
				return err
			}

			users, err := client.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			if len(users) == 0 {
				fmt.Println("No members found.")
				return nil
			}

			fmt.Printf("%-6s  %-24s  %-32s  %s\n", "ID", "NAME", "EMAIL", "ROLE")
			for _, u := range users {
				fmt.Printf("%-6d  %-24s  %-32s  %s\n", u.ID, trim(u.Name, 24), u.Email, u.Role)
			}
			return nil
		},
	}
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Assign or revoke library admin rights (owner)",
	}

	assign := &cobra.Command{
		Use:   "assign <email>",
		Short: "Promote a reader to library admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionManageUsers); err != nil {
				return err
			}
			msg, err := client.AssignAdmin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("assign admin: %w", err)
			}
			fmt.Println(msg)
			return nil
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <email>",
		Short: "Demote a library admin back to reader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionManageUsers); err != nil {
				return err
			}
			msg, err := client.RevokeAdmin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("revoke admin: %w", err)
			}
			fmt.Println(msg)
			return nil
		},
	}

	cmd.AddCommand(assign, revoke)
	return cmd
}
