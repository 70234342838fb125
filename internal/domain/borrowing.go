package domain

import "context"

// BorrowingCommands: Asynchronous operations that keep the local cart in step
// with the server-side borrowing list.
type BorrowingCommands interface {
	FetchBorrowingList(ctx context.Context) error
	AddToBorrowingList(ctx context.Context, book Book) error
	RemoveFromBorrowingList(ctx context.Context, isbn string) error
	ConfirmBorrowing(ctx context.Context) error
}
