// filepath: internal/repository/book_repo.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"hkids/internal/logging"
	"hkids/internal/models"
)

// filePathSentinel is written into books.file_path on creation. The column is
// NOT NULL for historical reasons and nothing reads the value.
const filePathSentinel = "uploaded"

// CreateBook inserts a single book row inside its own transaction. Pages are
// never written here; the deferred batch insert owns those.
func (s *Repository) CreateBook(b *models.Book) (*models.Book, error) {
	tx, err := s.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	created, err := tx.InsertBookInTx(b, filePathSentinel)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// InsertBookPages writes all page rows in one batched INSERT and updates the
// book's page_count, in a single transaction independent of the one that
// created the book.
func (s *Repository) InsertBookPages(bookID int64, imagePaths []string) error {
	tx, err := s.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.InsertPagesInTx(bookID, imagePaths); err != nil {
		return err
	}
	if err := tx.SetPageCountInTx(bookID, len(imagePaths)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// bookColumns are the columns scanned into a models.Book, joined with the
// category name.
var bookColumns = []string{
	"b.id", "b.title", "b.author", "b.description", "b.cover_image",
	"b.category_id", "b.age_group_min", "b.age_group_max", "b.page_count",
	"b.is_published", "b.created_at", "b.updated_at", "c.name",
}

func scanBook(row squirrel.RowScanner) (*models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.CoverImage,
		&b.CategoryID, &b.AgeGroupMin, &b.AgeGroupMax, &b.PageCount,
		&b.IsPublished, &b.CreatedAt, &b.UpdatedAt, &b.CategoryName)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBook retrieves a single book by id.
func (s *Repository) GetBook(id int64) (*models.Book, error) {
	query, args, err := s.Builder.Select(bookColumns...).
		From("books b").
		LeftJoin("categories c ON c.id = b.category_id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	b, err := scanBook(s.DB.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}
	return b, nil
}

// GetBookPages returns a book's pages ordered by page number.
func (s *Repository) GetBookPages(bookID int64) ([]models.BookPage, error) {
	query, args, err := s.Builder.Select("id", "book_id", "page_number", "image_path", "content").
		From("book_pages").
		Where(squirrel.Eq{"book_id": bookID}).
		OrderBy("page_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	pages := make([]models.BookPage, 0)
	for rows.Next() {
		var p models.BookPage
		if err := rows.Scan(&p.ID, &p.BookID, &p.PageNumber, &p.ImagePath, &p.Content); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// BookFilter narrows published-book queries. A nil field means "no filter".
type BookFilter struct {
	AgeGroup     *int
	CategoryID   *int64
	KidProfileID *int64 // restricts to categories approved for this profile
}

// GetPublishedBooks returns published books newest first. The age filter is
// inclusive on both ends of the book's age range. The full result set is
// returned; there is no pagination.
func (s *Repository) GetPublishedBooks(filter BookFilter) ([]models.Book, error) {
	q := s.Builder.Select(bookColumns...).
		From("books b").
		LeftJoin("categories c ON c.id = b.category_id").
		Where(squirrel.Eq{"b.is_published": true}).
		OrderBy("b.created_at DESC")

	if filter.AgeGroup != nil {
		q = q.Where(squirrel.LtOrEq{"b.age_group_min": *filter.AgeGroup}).
			Where(squirrel.GtOrEq{"b.age_group_max": *filter.AgeGroup})
	}
	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"b.category_id": *filter.CategoryID})
	}
	if filter.KidProfileID != nil {
		q = q.Where(`b.category_id IN (
			SELECT category_id FROM parent_approvals
			WHERE kid_profile_id = ? AND approved = TRUE)`, *filter.KidProfileID)
	}

	return s.queryBooks(q)
}

// GetBooks returns every book regardless of publish state, newest first.
func (s *Repository) GetBooks() ([]models.Book, error) {
	q := s.Builder.Select(bookColumns...).
		From("books b").
		LeftJoin("categories c ON c.id = b.category_id").
		OrderBy("b.created_at DESC")
	return s.queryBooks(q)
}

func (s *Repository) queryBooks(q squirrel.SelectBuilder) ([]models.Book, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// UpdateBook writes the full metadata row. Callers fetch the current row
// first and coalesce omitted fields, so every column is always present here.
func (s *Repository) UpdateBook(b *models.Book) error {
	query, args, err := s.Builder.Update("books").
		Set("title", b.Title).
		Set("author", b.Author).
		Set("description", b.Description).
		Set("cover_image", b.CoverImage).
		Set("category_id", b.CategoryID).
		Set("age_group_min", b.AgeGroupMin).
		Set("age_group_max", b.AgeGroupMax).
		Set("is_published", b.IsPublished).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBook removes the book row; page rows go with it via the FK cascade.
// It returns the stored file paths so the caller can clean up the disk.
func (s *Repository) DeleteBook(id int64) (coverPath string, pagePaths []string, err error) {
	pages, err := s.GetBookPages(id)
	if err != nil {
		return "", nil, err
	}
	for _, p := range pages {
		pagePaths = append(pagePaths, p.ImagePath)
	}

	query, args, err := s.Builder.Delete("books").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING cover_image").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build delete: %w", err)
	}

	if err := s.DB.QueryRow(query, args...).Scan(&coverPath); err != nil {
		if err == sql.ErrNoRows {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("failed to delete book: %w", err)
	}

	logging.Log.Debugf("DeleteBook: book %d deleted (%d page rows cascaded)", id, len(pagePaths))
	return coverPath, pagePaths, nil
}
