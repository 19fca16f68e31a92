package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLibrariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List registered libraries",
		RunE: func(cmd *cobra.Command, args []string) error {
			libs, err := client.ListLibraries(cmd.Context())
			if err != nil {
				return fmt.Errorf("list libraries: %w", err)
			}
			if len(libs) == 0 {
				fmt.Println("No libraries registered.")
				return nil
			}

			fmt.Printf("%-6s  %s\n", "ID", "NAME")
			for _, l := range libs {
				fmt.Printf("%-6d  %s\n", l.ID, l.Name)
			}
			return nil
		},
	}
}
