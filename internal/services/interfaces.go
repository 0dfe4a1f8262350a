// filepath: internal/services/interfaces.go
package services

import (
	"context"

	"hkids/internal/config"
	"hkids/internal/models"
	"hkids/internal/repository"
	"hkids/internal/uploads"
)

// Auditor defines the interface for recording security-relevant events.
type Auditor interface {
	// Log records an event.
	// action: what happened (e.g., "book.create", "book.pages_failed")
	// actor: who did it (username)
	// resource: what was affected (e.g., "book:42")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// UserService defines the interface for the user service.
type UserService interface {
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUserPassword(username, password string) error
	CreateUser(args repository.UserCreateArgs) (*models.User, error)
	DeleteUser(id int64) error
	Signup(username, password string) (*models.User, error)
	InitializeAdminUser(cfg *config.Config) error
}

// BookService defines the interface for the book service.
type BookService interface {
	CreateBook(input BookInput, cover *uploads.StoredFile, pages []uploads.StoredFile) (*models.BookCreatedResponse, error)
	UpdateBook(id int64, input BookInput, cover *uploads.StoredFile) (*models.Book, error)
	DeleteBook(id int64) error
	GetBook(id int64) (*models.BookDetail, error)
	GetBooks() ([]models.Book, error)
	GetPublishedBooks(filter repository.BookFilter) ([]models.Book, error)
}

// CategoryService defines the interface for the category service.
type CategoryService interface {
	GetCategories() ([]models.Category, error)
	CreateCategory(name, description string) (*models.Category, error)
	UpdateCategory(id int64, name, description string) (*models.Category, error)
	DeleteCategory(id int64) error
}

// KidsService defines the interface for kid profiles and approvals. All
// operations are scoped to the requesting parent; touching another parent's
// profile yields ErrForbidden.
type KidsService interface {
	GetProfiles(parentID int64) ([]models.KidProfile, error)
	CreateProfile(parentID int64, name string, age *int, avatar *uploads.StoredFile) (*models.KidProfile, error)
	UpdateProfile(parentID, profileID int64, name *string, age *int, avatar *uploads.StoredFile) (*models.KidProfile, error)
	DeleteProfile(parentID, profileID int64) error
	SetApproval(parentID, profileID, categoryID int64, approved bool) error
	GetApprovals(parentID, profileID int64) ([]models.ParentApproval, error)
	GetApprovedBooks(parentID, profileID int64, ageGroup *int) ([]models.Book, error)
}

// HousekeepingService defines the interface for the housekeeping service.
type HousekeepingService interface {
	Start()
	Stop()
	Trigger() (*HousekeepingReport, error)
}
