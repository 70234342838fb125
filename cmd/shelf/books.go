package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Book commands
var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse and manage the catalog",
}

var booksListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List catalog books, optionally filtered",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		if _, err := a.catalogCmds.FetchAll(ctx); err != nil {
			return reported(err)
		}

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		books := a.catalogQ.Filter(query, filter)
		if len(books) == 0 {
			fmt.Println("No books match.")
			return nil
		}
		printBooks(books)
		return nil
	},
}

var booksGenresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		if _, err := a.catalogCmds.FetchAll(ctx); err != nil {
			return reported(err)
		}
		for _, g := range a.catalogQ.Genres() {
			fmt.Println(g)
		}
		return nil
	},
}

var booksSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Add a book to the catalog (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		in := bookInputFromFlags(cmd, domain.Book{Available: true})

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		if _, err := a.catalogCmds.SaveBook(ctx, in); err != nil {
			return reported(err)
		}
		return nil
	},
}

var booksUpdateCmd = &cobra.Command{
	Use:   "update <isbn>",
	Short: "Edit a catalog book (admin); unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		if _, err := a.catalogCmds.FetchAll(ctx); err != nil {
			return reported(err)
		}
		current, ok := a.catalogQ.FindByISBN(args[0])
		if !ok {
			return fmt.Errorf("no book with ISBN %s", args[0])
		}

		in := bookInputFromFlags(cmd, current)
		if _, err := a.catalogCmds.UpdateBook(ctx, args[0], in); err != nil {
			return reported(err)
		}
		return nil
	},
}

var booksDeleteCmd = &cobra.Command{
	Use:   "delete <isbn>",
	Short: "Remove a book from the catalog (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		return reported(a.catalogCmds.DeleteBook(ctx, args[0]))
	},
}

func init() {
	booksListCmd.Flags().String("genre", "", "only this genre")
	booksListCmd.Flags().String("year", "", "only this publication year")
	booksListCmd.Flags().String("availability", "all", "all, available or unavailable")

	for _, c := range []*cobra.Command{booksSaveCmd, booksUpdateCmd} {
		c.Flags().String("title", "", "title")
		c.Flags().String("author", "", "author")
		c.Flags().String("isbn", "", "ISBN")
		c.Flags().String("genre", "", "genre")
		c.Flags().Int("year", 0, "publication year")
		c.Flags().Bool("available", true, "whether a copy can be borrowed")
		c.Flags().String("cover", "", "cover image URL")
	}

	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksGenresCmd)
	booksCmd.AddCommand(booksSaveCmd)
	booksCmd.AddCommand(booksUpdateCmd)
	booksCmd.AddCommand(booksDeleteCmd)
}

func filterFromFlags(cmd *cobra.Command) (domain.BookFilter, error) {
	genre, _ := cmd.Flags().GetString("genre")
	year, _ := cmd.Flags().GetString("year")
	raw, _ := cmd.Flags().GetString("availability")

	availability, ok := domain.ParseAvailability(raw)
	if !ok {
		return domain.BookFilter{}, fmt.Errorf("availability must be all, available or unavailable, got %q", raw)
	}
	if year != "" {
		if _, err := strconv.Atoi(year); err != nil {
			return domain.BookFilter{}, fmt.Errorf("year must be a number, got %q", year)
		}
	}
	return domain.BookFilter{Genre: genre, Year: year, Availability: availability}, nil
}

// bookInputFromFlags overlays the flags the user set on base
func bookInputFromFlags(cmd *cobra.Command, base domain.Book) domain.BookInput {
	in := domain.BookInput{
		Title:           base.Title,
		Author:          base.Author,
		ISBN:            base.ISBN,
		Genre:           base.Genre,
		PublicationYear: base.PublicationYear,
		Available:       base.Available,
		CoverImage:      base.CoverImage,
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("title", &in.Title)
	str("author", &in.Author)
	str("isbn", &in.ISBN)
	str("genre", &in.Genre)
	str("cover", &in.CoverImage)
	if flags.Changed("year") {
		in.PublicationYear, _ = flags.GetInt("year")
	}
	if flags.Changed("available") {
		in.Available, _ = flags.GetBool("available")
	}
	return in
}

func printBooks(books []domain.Book) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tTITLE\tAUTHOR\tYEAR\tGENRE\tISBN")
	for _, b := range books {
		mark := styles.UnavailableChar
		if b.Available {
			mark = styles.AvailableChar
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, styles.Truncate(b.Title, 40), styles.Truncate(b.Author, 24), b.DisplayYear(), b.Genre, b.ISBN)
	}
	w.Flush()
}
