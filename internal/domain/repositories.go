package domain

import "context"

// AuthRepository: network operations against the auth service
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Register(ctx context.Context, name, email, password string) error
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error)
}

// ProfileRepository: network operations on user profiles (bearer auth)
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*UserProfile, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// CatalogRepository: network operations on the book catalog
type CatalogRepository interface {
	GetAllBooks(ctx context.Context) ([]Book, error)
	SaveBook(ctx context.Context, in BookInput) (*Book, error)
	UpdateBook(ctx context.Context, isbn string, in BookInput) (*Book, error)
	DeleteBook(ctx context.Context, isbn string) error
}

// BorrowingListRepository: network operations on the server-side borrowing list
type BorrowingListRepository interface {
	GetBorrowingList(ctx context.Context) ([]Book, error)
	AddToBorrowingList(ctx context.Context, isbn string) error
	RemoveFromBorrowingList(ctx context.Context, isbn string) error
}

// TransactionRepository: network operations on borrow transactions
type TransactionRepository interface {
	Borrow(ctx context.Context, userID, bookID string) (*Transaction, error)
}

// TokenSource supplies the bearer token for authenticated requests
type TokenSource interface {
	Token() string
}
