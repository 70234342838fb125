package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/domain"
)

// Commands provides asynchronous operations that hit network.
// Implements domain.CatalogCommands.
type Commands struct {
	repo    domain.CatalogRepository
	cache   *Cache
	gate    domain.SessionGate
	tracker *activity.Tracker
	report  *activity.Reporter
	logger  *slog.Logger
}

// NewCommands creates a new Commands instance.
func NewCommands(
	repo domain.CatalogRepository,
	cache *Cache,
	gate domain.SessionGate,
	tracker *activity.Tracker,
	report *activity.Reporter,
	logger *slog.Logger,
) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	if tracker == nil {
		tracker = activity.NewTracker(nil)
	}
	if report == nil {
		report = activity.NewReporter(gate, nil, logger)
	}
	return &Commands{repo: repo, cache: cache, gate: gate, tracker: tracker, report: report, logger: logger}
}

// FetchAll replaces the cached catalog with the server's list
func (c *Commands) FetchAll(ctx context.Context) ([]domain.Book, error) {
	done := c.tracker.Begin()
	defer done()

	books, err := c.repo.GetAllBooks(ctx)
	if err != nil {
		c.report.Fail(ctx, err, "load the catalog")
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if !activity.Mounted(ctx) {
		c.logger.Debug("view gone, not caching catalog", "count", len(books))
		return books, nil
	}
	c.cache.Replace(books)
	c.logger.Debug("fetched catalog", "count", len(books))
	return books, nil
}

func (c *Commands) SaveBook(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	if err := c.requireAdmin(ctx, "add books"); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		c.report.Notify(ctx, domain.NoticeFor(err, ""))
		return nil, err
	}

	done := c.tracker.Begin()
	defer done()

	book, err := c.repo.SaveBook(ctx, in)
	if err != nil {
		c.report.Fail(ctx, err, "save the book")
		return nil, fmt.Errorf("failed to save book %s: %w", in.ISBN, err)
	}
	c.logger.Info("saved book", "isbn", in.ISBN, "id", book.ID)
	c.report.Notify(ctx, domain.SuccessNotice(fmt.Sprintf("Added %q to the catalog.", book.Title)))
	c.refresh(ctx)
	return book, nil
}

func (c *Commands) UpdateBook(ctx context.Context, isbn string, in domain.BookInput) (*domain.Book, error) {
	if err := c.requireAdmin(ctx, "edit books"); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		c.report.Notify(ctx, domain.NoticeFor(err, ""))
		return nil, err
	}

	done := c.tracker.Begin()
	defer done()

	book, err := c.repo.UpdateBook(ctx, isbn, in)
	if err != nil {
		c.report.Fail(ctx, err, "update the book")
		return nil, fmt.Errorf("failed to update book %s: %w", isbn, err)
	}
	c.logger.Info("updated book", "isbn", isbn)
	c.report.Notify(ctx, domain.SuccessNotice(fmt.Sprintf("Updated %q.", book.Title)))
	c.refresh(ctx)
	return book, nil
}

func (c *Commands) DeleteBook(ctx context.Context, isbn string) error {
	if err := c.requireAdmin(ctx, "delete books"); err != nil {
		return err
	}

	done := c.tracker.Begin()
	defer done()

	if err := c.repo.DeleteBook(ctx, isbn); err != nil {
		c.report.Fail(ctx, err, "delete the book")
		return fmt.Errorf("failed to delete book %s: %w", isbn, err)
	}
	c.logger.Info("deleted book", "isbn", isbn)
	c.report.Notify(ctx, domain.SuccessNotice("Book deleted."))
	c.refresh(ctx)
	return nil
}

// requireAdmin checks the local role before any admin call goes out
func (c *Commands) requireAdmin(ctx context.Context, action string) error {
	sess, err := c.report.RequireSession(ctx, action)
	if err != nil {
		return err
	}
	if !sess.IsAdmin() {
		c.report.Notify(ctx, domain.ErrorNotice("Only administrators can "+action+".", false))
		return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
	}
	return nil
}

// refresh re-fetches after a mutation; FetchAll reports its own failure
func (c *Commands) refresh(ctx context.Context) {
	if _, err := c.FetchAll(ctx); err != nil {
		c.logger.Warn("catalog refresh failed", "error", err)
	}
}

func validateInput(in domain.BookInput) error {
	switch {
	case in.Title == "":
		return &domain.ValidationError{Field: "title", Problem: "is required"}
	case in.Author == "":
		return &domain.ValidationError{Field: "author", Problem: "is required"}
	case in.ISBN == "":
		return &domain.ValidationError{Field: "ISBN", Problem: "is required"}
	case in.PublicationYear < 0:
		return &domain.ValidationError{Field: "publication year", Problem: "cannot be negative"}
	}
	return nil
}
