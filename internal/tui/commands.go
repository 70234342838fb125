package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/profile"
	"github.com/mmcdole/shelf/internal/session"
)

// Command factories for async operations.
// Every sync call carries the model's mount so late results leave state alone.

const requestTimeout = 30 * time.Second

func mountedContext(mount *activity.Mount) (context.Context, context.CancelFunc) {
	return context.WithTimeout(activity.WithMount(context.Background(), mount), requestTimeout)
}

// FetchCatalogCmd replaces the catalog cache from the server
func FetchCatalogCmd(svc domain.CatalogCommands, mount *activity.Mount) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		books, err := svc.FetchAll(ctx)
		if err != nil {
			return OpFailedMsg{Err: err, Context: "loading catalog"}
		}
		return CatalogLoadedMsg{Count: len(books)}
	}
}

// SaveBookCmd creates a catalog record (admin)
func SaveBookCmd(svc domain.CatalogCommands, mount *activity.Mount, in domain.BookInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		book, err := svc.SaveBook(ctx, in)
		if err != nil {
			return OpFailedMsg{Err: err, Context: "saving book"}
		}
		return CatalogChangedMsg{ISBN: book.ISBN}
	}
}

// UpdateBookCmd edits the record identified by isbn (admin)
func UpdateBookCmd(svc domain.CatalogCommands, mount *activity.Mount, isbn string, in domain.BookInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		book, err := svc.UpdateBook(ctx, isbn, in)
		if err != nil {
			return OpFailedMsg{Err: err, Context: "updating book"}
		}
		return CatalogChangedMsg{ISBN: book.ISBN}
	}
}

// DeleteBookCmd removes a catalog record (admin)
func DeleteBookCmd(svc domain.CatalogCommands, mount *activity.Mount, isbn string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		if err := svc.DeleteBook(ctx, isbn); err != nil {
			return OpFailedMsg{Err: err, Context: "deleting book"}
		}
		return CatalogChangedMsg{ISBN: isbn}
	}
}

// FetchBorrowingListCmd mirrors the server borrowing list into the cart
func FetchBorrowingListCmd(svc domain.BorrowingCommands, mount *activity.Mount) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		if err := svc.FetchBorrowingList(ctx); err != nil {
			return OpFailedMsg{Err: err, Context: "loading borrowing list"}
		}
		return BorrowingListLoadedMsg{}
	}
}

// AddToListCmd adds a book to the server list and the cart
func AddToListCmd(svc domain.BorrowingCommands, mount *activity.Mount, book domain.Book) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		if err := svc.AddToBorrowingList(ctx, book); err != nil {
			return OpFailedMsg{Err: err, Context: "adding to list"}
		}
		return CartChangedMsg{}
	}
}

// RemoveFromListCmd removes a book from the server list and the cart
func RemoveFromListCmd(svc domain.BorrowingCommands, mount *activity.Mount, isbn string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		if err := svc.RemoveFromBorrowingList(ctx, isbn); err != nil {
			return OpFailedMsg{Err: err, Context: "removing from list"}
		}
		return CartChangedMsg{}
	}
}

// ConfirmBorrowingCmd borrows every cart item
func ConfirmBorrowingCmd(svc domain.BorrowingCommands, mount *activity.Mount, count int) tea.Cmd {
	return func() tea.Msg {
		// One request per item; give long lists room
		ctx, cancel := context.WithTimeout(activity.WithMount(context.Background(), mount), requestTimeout+time.Duration(count)*5*time.Second)
		defer cancel()

		if err := svc.ConfirmBorrowing(ctx); err != nil {
			return OpFailedMsg{Err: err, Context: "borrowing"}
		}
		return BorrowConfirmedMsg{Count: count}
	}
}

// LoginCmd signs in; failures are shown on the login form
func LoginCmd(svc *session.Service, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		sess, err := svc.Login(ctx, email, password)
		if err != nil {
			return FormErrorMsg{Err: err}
		}
		return LoginSuccessMsg{Session: sess}
	}
}

// RegisterCmd creates an account
func RegisterCmd(svc *session.Service, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := svc.Register(ctx, name, email, password); err != nil {
			return FormErrorMsg{Err: err}
		}
		return RegisteredMsg{Email: email}
	}
}

// RefreshSessionCmd rotates the tokens of a restored session
func RefreshSessionCmd(svc *session.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return SessionRefreshedMsg{Err: svc.Refresh(ctx)}
	}
}

// LogoutCmd clears the stored session
func LogoutCmd(svc *session.Service) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Logout(); err != nil {
			return OpFailedMsg{Err: err, Context: "signing out"}
		}
		return LoggedOutMsg{}
	}
}

// LoadProfileCmd loads the signed-in user's profile
func LoadProfileCmd(svc *profile.Service, mount *activity.Mount) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		p, err := svc.Get(ctx, "")
		if err != nil {
			return OpFailedMsg{Err: err, Context: "loading profile"}
		}
		return ProfileLoadedMsg{Profile: p}
	}
}

// UpdateProfileCmd edits the signed-in user's profile
func UpdateProfileCmd(svc *profile.Service, mount *activity.Mount, update domain.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		p, err := svc.Update(ctx, "", update)
		if err != nil {
			return OpFailedMsg{Err: err, Context: "updating profile"}
		}
		return ProfileLoadedMsg{Profile: p}
	}
}

// DeleteAccountCmd deletes the signed-in user's account.
// The service routes to sign-in through its notice.
func DeleteAccountCmd(svc *profile.Service, mount *activity.Mount) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := mountedContext(mount)
		defer cancel()

		if err := svc.Delete(ctx, ""); err != nil {
			return OpFailedMsg{Err: err, Context: "deleting account"}
		}
		return nil
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay.
// seq ties the clear to the message it was scheduled for.
func ClearStatusCmd(delay time.Duration, seq int) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
