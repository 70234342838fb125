package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Borrowing list commands
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage your borrowing list",
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the books on your borrowing list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		if err := a.borrowingCmds.FetchBorrowingList(ctx); err != nil {
			return reported(err)
		}

		items := a.borrowingQ.Items()
		if len(items) == 0 {
			return nil
		}
		for _, it := range items {
			fmt.Printf("%-14s %s\n", it.Book.ISBN, it.Book.Title)
		}
		fmt.Printf("\n%d %s\n", len(items), plural(len(items), "book", "books"))
		return nil
	},
}

var listAddCmd = &cobra.Command{
	Use:   "add <isbn>",
	Short: "Add a catalog book to your borrowing list",
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
		book, ok := a.catalogQ.FindByISBN(args[0])
		if !ok {
			return fmt.Errorf("no book with ISBN %s", args[0])
		}
		return reported(a.borrowingCmds.AddToBorrowingList(ctx, book))
	},
}

var listRemoveCmd = &cobra.Command{
	Use:   "remove <isbn>",
	Short: "Remove a book from your borrowing list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		return reported(a.borrowingCmds.RemoveFromBorrowingList(ctx, args[0]))
	},
}

var listConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Borrow every book on your list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		if err := a.borrowingCmds.FetchBorrowingList(ctx); err != nil {
			return reported(err)
		}
		return reported(a.borrowingCmds.ConfirmBorrowing(ctx))
	},
}

func init() {
	listCmd.AddCommand(listShowCmd)
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listRemoveCmd)
	listCmd.AddCommand(listConfirmCmd)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
