// filepath: internal/services/book_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"hkids/internal/config"
	"hkids/internal/logging"
	"hkids/internal/models"
	"hkids/internal/repository"
	"hkids/internal/uploads"
)

var _ BookService = (*bookService)(nil)

// bookService owns the book write path, including the two-phase ingestion
// split: the metadata row commits synchronously, page rows are inserted by a
// deferred background step after the response is on the wire.
type bookService struct {
	Repo    *repository.Repository
	Storage *StorageService
	Cfg     *config.Config
	Auditor Auditor
}

// NewBookService creates a new BookService.
func NewBookService(repo *repository.Repository, storage *StorageService, cfg *config.Config, auditor Auditor) *bookService {
	return &bookService{
		Repo:    repo,
		Storage: storage,
		Cfg:     cfg,
		Auditor: auditor,
	}
}

// BookInput carries the multipart form fields of a create or update request.
// Nil pointers mean the field was omitted.
type BookInput struct {
	Title       *string
	Author      *string
	Description *string
	CategoryID  *int64
	AgeGroupMin *int
	AgeGroupMax *int
	IsPublished *bool
}

// processingMessage is included in the create response whenever page files
// were supplied and the batch insert is still pending.
const processingMessage = "Pages are being processed..."

// CreateBook persists the book row and responds before any page row exists.
// If page files were supplied, their batch insert is handed to a background
// step whose outcome is never reported to the caller: on failure the book
// simply stays at page_count 0 with no page rows.
func (s *bookService) CreateBook(input BookInput, cover *uploads.StoredFile, pages []uploads.StoredFile) (*models.BookCreatedResponse, error) {
	if input.Title == nil || *input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	book := applyInput(&models.Book{AgeGroupMin: 0, AgeGroupMax: 12}, input)
	if err := validateAgeRange(book.AgeGroupMin, book.AgeGroupMax); err != nil {
		return nil, err
	}
	if cover != nil {
		book.CoverImage = cover.PublicPath
	}

	created, err := s.Repo.CreateBook(book)
	if err != nil {
		logging.Log.Errorf("BookService: failed to create book %q: %v", book.Title, err)
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	resp := &models.BookCreatedResponse{
		ID:      created.ID,
		Message: "Book created successfully",
	}
	if len(pages) > 0 {
		resp.Processing = processingMessage
		go s.insertPagesDeferred(created.ID, pages)
	}
	return resp, nil
}

// insertPagesDeferred is the second phase of book creation. It runs after the
// HTTP response has been sent, opens its own transaction and performs one
// batched insert plus the page_count update. On any failure it rolls back and
// logs; there is no retry and the original caller is never informed.
func (s *bookService) insertPagesDeferred(bookID int64, pages []uploads.StoredFile) {
	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.PublicPath
	}

	if err := s.Repo.InsertBookPages(bookID, paths); err != nil {
		logging.Log.Errorf("BookService: deferred page insert failed for book %d (%d pages): %v", bookID, len(pages), err)
		s.Auditor.Log(context.Background(), "book.pages_failed", "system",
			fmt.Sprintf("book:%d", bookID), map[string]interface{}{
				"pages": len(pages),
				"error": err.Error(),
			})
		return
	}

	logging.Log.Infof("BookService: inserted %d pages for book %d", len(pages), bookID)
	s.Auditor.Log(context.Background(), "book.pages_inserted", "system",
		fmt.Sprintf("book:%d", bookID), map[string]interface{}{"pages": len(pages)})
}

// UpdateBook applies partial-update semantics: the current row is fetched
// first and any omitted field keeps its stored value. A new cover replaces
// the old one on disk; an omitted cover preserves the existing path.
func (s *bookService) UpdateBook(id int64, input BookInput, cover *uploads.StoredFile) (*models.Book, error) {
	current, err := s.Repo.GetBook(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	updated := applyInput(current, input)
	if err := validateAgeRange(updated.AgeGroupMin, updated.AgeGroupMax); err != nil {
		return nil, err
	}

	oldCover := ""
	if cover != nil {
		oldCover = current.CoverImage
		updated.CoverImage = cover.PublicPath
	}

	if err := s.Repo.UpdateBook(updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		logging.Log.Errorf("BookService: failed to update book %d: %v", id, err)
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	if oldCover != "" {
		s.Storage.DeleteStoredFile(oldCover)
	}

	return s.Repo.GetBook(id)
}

// DeleteBook removes the book row (pages cascade) and then best-effort
// deletes the stored files. File deletion failures are swallowed.
func (s *bookService) DeleteBook(id int64) error {
	coverPath, pagePaths, err := s.Repo.DeleteBook(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logging.Log.Errorf("BookService: failed to delete book %d: %v", id, err)
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if coverPath != "" {
		s.Storage.DeleteStoredFile(coverPath)
	}
	for _, p := range pagePaths {
		s.Storage.DeleteStoredFile(p)
	}

	logging.Log.Infof("BookService: book %d deleted", id)
	return nil
}

// GetBook returns a book with its pages ordered by page number.
func (s *bookService) GetBook(id int64) (*models.BookDetail, error) {
	book, err := s.Repo.GetBook(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	pages, err := s.Repo.GetBookPages(id)
	if err != nil {
		return nil, err
	}

	return &models.BookDetail{Book: *book, Pages: pages}, nil
}

// GetBooks returns every book regardless of publish state.
func (s *bookService) GetBooks() ([]models.Book, error) {
	return s.Repo.GetBooks()
}

// GetPublishedBooks returns published books matching the filter.
func (s *bookService) GetPublishedBooks(filter repository.BookFilter) ([]models.Book, error) {
	return s.Repo.GetPublishedBooks(filter)
}

// applyInput coalesces the input over a base book: omitted fields keep the
// base value.
func applyInput(base *models.Book, input BookInput) *models.Book {
	b := *base
	if input.Title != nil {
		b.Title = *input.Title
	}
	if input.Author != nil {
		b.Author = *input.Author
	}
	if input.Description != nil {
		b.Description = *input.Description
	}
	if input.CategoryID != nil {
		b.CategoryID = input.CategoryID
	}
	if input.AgeGroupMin != nil {
		b.AgeGroupMin = *input.AgeGroupMin
	}
	if input.AgeGroupMax != nil {
		b.AgeGroupMax = *input.AgeGroupMax
	}
	if input.IsPublished != nil {
		b.IsPublished = *input.IsPublished
	}
	return &b
}

// validateAgeRange rejects inverted bounds. It runs on the coalesced values,
// so a partial update of one bound is checked against the stored other bound.
// The schema does not enforce this; callers must.
func validateAgeRange(min, max int) error {
	if min > max {
		return fmt.Errorf("%w: age_group_min must not exceed age_group_max", ErrValidation)
	}
	return nil
}
