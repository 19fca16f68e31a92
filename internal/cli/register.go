package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/shelfctl/pkg/libms"
)

func newRegisterCmd() *cobra.Command {
	var in libms.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register as a reader in an existing library",
		Long:  "Create a reader account. Run 'shelfctl libraries' first to find the library id.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				pw, err := promptPassword("Password: ")
				if err != nil {
					return err
				}
				in.Password = pw
			}

			msg, err := client.Register(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Println(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Account password (prompted if omitted)")
	cmd.Flags().StringVar(&in.ContactNumber, "contact", "", "Contact number")
	cmd.Flags().IntVar(&in.LibraryID, "library-id", 0, "Library to join (see 'shelfctl libraries')")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("library-id")
	return cmd
}

func newRegisterOwnerCmd() *cobra.Command {
	var in libms.OwnerRegisterInput

	cmd := &cobra.Command{
		Use:   "register-owner",
		Short: "Register a new library together with its owner account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				pw, err := promptPassword("Password: ")
				if err != nil {
					return err
				}
				in.Password = pw
			}

			msg, err := client.RegisterOwner(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("register owner: %w", err)
			}
			fmt.Println(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Account password (prompted if omitted)")
	cmd.Flags().StringVar(&in.ContactNumber, "contact", "", "Contact number")
	cmd.Flags().StringVar(&in.LibraryName, "library", "", "Name of the new library")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("library")
	return cmd
}
