// Package borrowing keeps the local cart in step with the server-side
// borrowing list and turns the cart into borrow transactions.
package borrowing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/cart"
	"github.com/mmcdole/shelf/internal/domain"
)

// ConfirmError reports the cart item whose borrow call failed.
// Items before it were borrowed and stay borrowed.
type ConfirmError struct {
	Book      domain.Book
	Committed int
	Err       error
}

func (e *ConfirmError) Error() string {
	return fmt.Sprintf("failed to borrow %q after %d successful borrows: %v", e.Book.Title, e.Committed, e.Err)
}

func (e *ConfirmError) Unwrap() error {
	return e.Err
}

// Deps are the collaborators of Commands
type Deps struct {
	List         domain.BorrowingListRepository
	Transactions domain.TransactionRepository
	Cart         *cart.Cart
	Catalog      domain.CatalogCommands // refreshed after every change; optional
	Gate         domain.SessionGate
	Tracker      *activity.Tracker
	Reporter     *activity.Reporter
	Logger       *slog.Logger
}

// Commands provides asynchronous operations that hit network.
// Implements domain.BorrowingCommands.
type Commands struct {
	list    domain.BorrowingListRepository
	tx      domain.TransactionRepository
	cart    *cart.Cart
	catalog domain.CatalogCommands
	tracker *activity.Tracker
	report  *activity.Reporter
	logger  *slog.Logger
}

// NewCommands creates a new Commands instance.
func NewCommands(d Deps) *Commands {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Tracker == nil {
		d.Tracker = activity.NewTracker(nil)
	}
	if d.Reporter == nil {
		d.Reporter = activity.NewReporter(d.Gate, nil, d.Logger)
	}
	return &Commands{
		list:    d.List,
		tx:      d.Transactions,
		cart:    d.Cart,
		catalog: d.Catalog,
		tracker: d.Tracker,
		report:  d.Reporter,
		logger:  d.Logger,
	}
}

// FetchBorrowingList replaces the cart with the server's borrowing list.
// A 404 means the list is empty.
func (c *Commands) FetchBorrowingList(ctx context.Context) error {
	done := c.tracker.Begin()
	defer done()

	if _, err := c.report.RequireSession(ctx, "see your borrowing list"); err != nil {
		return err
	}

	books, err := c.list.GetBorrowingList(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		if activity.Mounted(ctx) {
			c.cart.Clear()
		}
		c.logger.Debug("borrowing list not found, treating as empty")
		c.report.Notify(ctx, domain.InfoNotice("Your borrowing list is empty."))
		return nil
	}
	if err != nil {
		c.fail(ctx, err, "load your borrowing list")
		return fmt.Errorf("failed to fetch borrowing list: %w", err)
	}

	if !activity.Mounted(ctx) {
		return nil
	}
	c.cart.Replace(books)
	c.logger.Debug("fetched borrowing list", "count", len(books))
	return nil
}

// AddToBorrowingList puts book on the server list, then in the cart
func (c *Commands) AddToBorrowingList(ctx context.Context, book domain.Book) error {
	done := c.tracker.Begin()
	defer done()

	if _, err := c.report.RequireSession(ctx, "borrow books"); err != nil {
		return err
	}

	err := c.list.AddToBorrowingList(ctx, book.ISBN)
	if errors.Is(err, domain.ErrBookUnavailable) {
		c.logger.Info("book unavailable", "isbn", book.ISBN)
		c.report.Notify(ctx, domain.ErrorNotice(fmt.Sprintf("%q is not available right now.", book.Title), false))
		c.refreshCatalog(ctx)
		return fmt.Errorf("failed to add %s: %w", book.ISBN, err)
	}
	if err != nil {
		c.fail(ctx, err, fmt.Sprintf("add %q", book.Title))
		return fmt.Errorf("failed to add %s: %w", book.ISBN, err)
	}

	if activity.Mounted(ctx) {
		c.cart.Add(book)
	}
	c.logger.Info("added to borrowing list", "isbn", book.ISBN)
	c.report.Notify(ctx, domain.SuccessNotice(fmt.Sprintf("Added %q to your borrowing list.", book.Title)))
	c.refreshCatalog(ctx)
	return nil
}

// RemoveFromBorrowingList deletes isbn from the server list, then decreases
// the local item. Unlike Cart.Decrease, which stops at one copy, an item
// already at count 1 is removed from the cart so it matches the server list.
func (c *Commands) RemoveFromBorrowingList(ctx context.Context, isbn string) error {
	done := c.tracker.Begin()
	defer done()

	if _, err := c.report.RequireSession(ctx, "change your borrowing list"); err != nil {
		return err
	}

	if err := c.list.RemoveFromBorrowingList(ctx, isbn); err != nil {
		c.fail(ctx, err, "remove the book")
		return fmt.Errorf("failed to remove %s: %w", isbn, err)
	}

	if item, ok := c.cart.FindByISBN(isbn); ok && activity.Mounted(ctx) {
		if item.Count > 1 {
			c.cart.Decrease(item.Book.ID)
		} else {
			c.cart.Remove(item.Book.ID)
		}
	}
	c.logger.Info("removed from borrowing list", "isbn", isbn)
	c.report.Notify(ctx, domain.SuccessNotice("Removed from your borrowing list."))
	c.refreshCatalog(ctx)
	return nil
}

// ConfirmBorrowing borrows every cart item, one request at a time.
// A failure stops the loop; earlier borrows are not rolled back and the
// cart is left as it was.
func (c *Commands) ConfirmBorrowing(ctx context.Context) error {
	done := c.tracker.Begin()
	defer done()

	if c.cart.IsEmpty() {
		c.report.Notify(ctx, domain.NoticeFor(domain.ErrEmptyCart, "borrow"))
		return domain.ErrEmptyCart
	}
	sess, err := c.report.RequireSession(ctx, "borrow books")
	if err != nil {
		return err
	}

	items := c.cart.Items()
	for i, item := range items {
		// Each borrow must land before the next; availability is decided server-side.
		if _, err := c.tx.Borrow(ctx, sess.UserID, item.Book.ID); err != nil {
			cerr := &ConfirmError{Book: item.Book, Committed: i, Err: err}
			c.logger.Error("borrow failed", "bookID", item.Book.ID, "committed", i, "total", len(items), "error", err)
			if domain.IsAuthFailure(err) {
				c.report.Fail(ctx, err, fmt.Sprintf("borrow %q", item.Book.Title))
			} else {
				c.report.Notify(ctx, borrowFailureNotice(item.Book, i, err))
				if domain.Classify(err) == domain.KindConflict {
					c.refreshCatalog(ctx)
				}
			}
			return cerr
		}
		c.logger.Debug("borrowed", "bookID", item.Book.ID, "copies", item.Count)
	}

	if activity.Mounted(ctx) {
		c.cart.Clear()
	}
	c.logger.Info("borrowing confirmed", "count", len(items))
	c.refreshCatalog(ctx)
	c.report.Notify(ctx, domain.Notice{
		Level:   domain.NoticeSuccess,
		Message: fmt.Sprintf("Borrowed %d %s.", len(items), plural(len(items), "book", "books")),
		Route:   domain.RouteCatalog,
	})
	return nil
}

// fail reports err. A conflict or rejected request also refetches the catalog.
func (c *Commands) fail(ctx context.Context, err error, action string) {
	c.report.Fail(ctx, err, action)
	if domain.Classify(err) == domain.KindConflict {
		c.refreshCatalog(ctx)
	}
}

func (c *Commands) refreshCatalog(ctx context.Context) {
	if c.catalog == nil {
		return
	}
	if _, err := c.catalog.FetchAll(ctx); err != nil {
		c.logger.Warn("catalog refresh failed", "error", err)
	}
}

func borrowFailureNotice(book domain.Book, committed int, err error) domain.Notice {
	reason := "please try again"
	retryable := true
	switch domain.Classify(err) {
	case domain.KindConflict:
		reason = "it is no longer available"
		retryable = false
	case domain.KindNotFound:
		reason = "it is no longer in the catalog"
		retryable = false
	}
	msg := fmt.Sprintf("Couldn't borrow %q: %s.", book.Title, reason)
	if committed > 0 {
		msg += fmt.Sprintf(" %d earlier %s borrowed.", committed, plural(committed, "book was", "books were"))
	}
	return domain.ErrorNotice(msg, retryable)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
