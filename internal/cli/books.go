package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/shelfctl/internal/authz"
	"github.com/me/shelfctl/pkg/libms"
	"github.com/me/shelfctl/pkg/model"
)

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage the library catalog",
	}
	cmd.AddCommand(
		newBooksListCmd(),
		newBooksAddCmd(),
		newBooksRemoveCmd(),
		newBooksUpdateCmd(),
	)
	return cmd
}

func newBooksListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog of your library",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Owners see the catalog through their status view; admins
			// and readers browse it.
			if _, err := requireAction(authz.ActionBrowseBooks); err != nil {
				if _, err2 := requireAction(authz.ActionViewBookStatus); err2 != nil {
					return err
				}
			}

			books, err := client.ListBooks(cmd.Context())
			if err != nil {
				return fmt.Errorf("list books: %w", err)
			}
			if search != "" {
				books = filterBooks(books, search)
			}
			if len(books) == 0 {
				fmt.Println("No books found.")
				return nil
			}

			fmt.Printf("%-16s  %-36s  %-24s  %s\n", "ISBN", "TITLE", "AUTHOR", "AVAILABLE")
			for _, b := range books {
				fmt.Printf("%-16s  %-36s  %-24s  %d/%d\n",
					b.ISBN, trim(b.Title, 36), trim(b.Author, 24), b.AvailableCopies, b.TotalCopies)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Filter by substring of title, author or ISBN")
	return cmd
}

// filterBooks keeps books whose title, author or ISBN contains the query,
// case-insensitively.
func filterBooks(books []model.Book, query string) []model.Book {
	q := strings.ToLower(query)
	out := books[:0]
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.ISBN), q) {
			out = append(out, b)
		}
	}
	return out
}

// trim shortens s to at most max characters, counting runes so a
// multi-byte title is never cut mid-character.
func trim(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func newBooksAddCmd() *cobra.Command {
	var in libms.AddBookInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book or more copies of an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionAddBook); err != nil {
				return err
			}
			msg, err := client.AddBook(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("add book: %w", err)
			}
			fmt.Println(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.ISBN, "isbn", "", "ISBN of the book")
	cmd.Flags().StringVar(&in.Title, "title", "", "Title (required for a new book)")
	cmd.Flags().StringVar(&in.Author, "author", "", "Author")
	cmd.Flags().StringVar(&in.Publisher, "publisher", "", "Publisher")
	cmd.Flags().StringVar(&in.Language, "language", "", "Language")
	cmd.Flags().StringVar(&in.Version, "version", "", "Edition or version")
	cmd.Flags().IntVar(&in.Copies, "copies", 1, "Number of copies to add")
	cmd.Flags().BoolVar(&in.IncrementOnly, "increment", false, "Only add copies to an existing ISBN")
	cmd.MarkFlagRequired("isbn")
	return cmd
}

func newBooksRemoveCmd() *cobra.Command {
	var copies int

	cmd := &cobra.Command{
		Use:   "remove <isbn>",
		Short: "Remove copies of a book (issued copies cannot be removed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionRemoveBook); err != nil {
				return err
			}
			msg, err := client.RemoveBookCopies(cmd.Context(), args[0], copies)
			if err != nil {
				return fmt.Errorf("remove book: %w", err)
			}
			fmt.Println(msg)
			return nil
		},
	}

	cmd.Flags().IntVar(&copies, "copies", 1, "Number of copies to remove")
	return cmd
}

func newBooksUpdateCmd() *cobra.Command {
	var in libms.UpdateBookInput

	cmd := &cobra.Command{
		Use:   "update <isbn>",
		Short: "Update the details of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireAction(authz.ActionUpdateBook); err != nil {
				return err
			}
			msg, err := client.UpdateBook(cmd.Context(), args[0], in)
			if err != nil {
				return fmt.Errorf("update book: %w", err)
			}
			fmt.Println(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "New title")
	cmd.Flags().StringVar(&in.Author, "author", "", "New author")
	cmd.Flags().StringVar(&in.Publisher, "publisher", "", "New publisher")
	cmd.Flags().StringVar(&in.Language, "language", "", "New language")
	cmd.Flags().StringVar(&in.Version, "version", "", "New edition or version")
	return cmd
}
