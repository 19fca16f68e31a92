package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the library service",
		Long:  "Authenticate with email and password and store the session for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No permission gate: logging in is how a session comes to
			// exist, and a fresh login replaces the stored one.
			if email == "" {
				fmt.Print("Email: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				pw, err := promptPassword("Password: ")
				if err != nil {
					return err
				}
				password = pw
			}

			sess, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := sessions.Login(*sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Printf("Logged in as %s (%s)\n", sess.DisplayName(), sess.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

// promptPassword reads a password without echo when stdin is a terminal,
// and falls back to a plain line read when it is not (tests, pipes).
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
