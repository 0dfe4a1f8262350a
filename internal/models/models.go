// filepath: internal/models/models.go
package models

import "time"

// User represents an account row. PasswordHash is never serialized.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	KidProfileID *int64 `json:"kid_profile_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Category is static reference data seeded at schema initialization.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Book holds the metadata row for an e-book. PageCount is written once by the
// deferred page-batch step; until that commits it reads 0.
type Book struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Description  string  `json:"description"`
	CoverImage   string  `json:"cover_image"`
	CategoryID   *int64  `json:"category_id"`
	AgeGroupMin  int     `json:"age_group_min"`
	AgeGroupMax  int     `json:"age_group_max"`
	PageCount    int     `json:"page_count"`
	IsPublished  bool    `json:"is_published"`
	CategoryName *string `json:"category_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookPage is one page image of a book. PageNumber is the 1-based submission
// order; there is no reordering after creation.
type BookPage struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"book_id"`
	PageNumber int     `json:"page_number"`
	ImagePath  string  `json:"image_path"`
	Content    *string `json:"content,omitempty"`
}

// BookDetail is a book joined with its pages, as returned by GET /books/:id.
type BookDetail struct {
	Book
	Pages []BookPage `json:"pages"`
}

// KidProfile is owned by exactly one parent user.
type KidProfile struct {
	ID       int64   `json:"id"`
	ParentID int64   `json:"parent_id"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
	Age      *int    `json:"age,omitempty"`
}

// ParentApproval gates whether a kid profile may see books in a category.
// The (kid_profile_id, category_id) pair is unique; writes are upserts.
type ParentApproval struct {
	KidProfileID int64     `json:"kid_profile_id"`
	CategoryID   int64     `json:"category_id"`
	Approved     bool      `json:"approved"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Info describes the running server for GET /api/info.
type Info struct {
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
	DatabaseOK  bool      `json:"database_ok"`
}

// TokenPair is the response body for login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookCreatedResponse is returned by POST /api/books. Processing is only set
// when page files were supplied and the batch insert is still pending.
type BookCreatedResponse struct {
	ID         int64  `json:"id"`
	Message    string `json:"message"`
	Processing string `json:"processing,omitempty"`
}
