package api

// errorResponse is the body of a failed request
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// bookDTO is a book as served by /books endpoints
type bookDTO struct {
	ID              string  `json:"id,omitempty"`
	MongoID         string  `json:"_id,omitempty"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	ISBN            string  `json:"isbn"`
	Genre           string  `json:"genre,omitempty"`
	PublicationYear int     `json:"publicationYear,omitempty"`
	Available       bool    `json:"available"`
	ReviewCount     int     `json:"reviewCount,omitempty"`
	AverageRating   float64 `json:"averageRating,omitempty"`
	CoverImage      string  `json:"coverImage,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
}

// bookEnvelope wraps single-book responses that nest the record
type bookEnvelope struct {
	Book *bookDTO `json:"book"`
}

// borrowingListResponse is the body of GET /borrowing-list
type borrowingListResponse struct {
	Books []bookDTO `json:"books"`
}

type isbnRequest struct {
	ISBN string `json:"isbn"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// userDTO is a profile as served by /auth/:id
type userDTO struct {
	ID        string `json:"id,omitempty"`
	MongoID   string `json:"_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type userEnvelope struct {
	User *userDTO `json:"user"`
}

type profileUpdateRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type borrowRequest struct {
	UserID string `json:"userId"`
	BookID string `json:"bookId"`
}

type transactionDTO struct {
	ID         string `json:"id,omitempty"`
	MongoID    string `json:"_id,omitempty"`
	UserID     string `json:"userId"`
	BookID     string `json:"bookId"`
	BorrowedAt string `json:"borrowDate,omitempty"`
	DueAt      string `json:"dueDate,omitempty"`
}

type transactionEnvelope struct {
	Transaction *transactionDTO `json:"transaction"`
}
