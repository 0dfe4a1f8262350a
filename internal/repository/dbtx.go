// filepath: internal/repository/dbtx.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"hkids/internal/models"
)

// Tx is a wrapper around *sql.Tx that provides transactional database operations.
type Tx struct {
	*sql.Tx
}

// psql builds queries with PostgreSQL placeholders for in-tx helpers.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// InsertBookInTx inserts one book row and returns it with the generated id
// and timestamps filled in.
func (tx *Tx) InsertBookInTx(b *models.Book, filePath string) (*models.Book, error) {
	query, args, err := psql.Insert("books").
		Columns("title", "author", "description", "cover_image", "file_path",
			"category_id", "age_group_min", "age_group_max", "page_count", "is_published").
		Values(b.Title, b.Author, b.Description, b.CoverImage, filePath,
			b.CategoryID, b.AgeGroupMin, b.AgeGroupMax, 0, b.IsPublished).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build book insert: %w", err)
	}

	created := *b
	created.PageCount = 0
	if err := tx.QueryRow(query, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}
	return &created, nil
}

// InsertPagesInTx performs one batched multi-row INSERT for a book's pages.
// Page numbers are the 1-based index of each path in submission order.
func (tx *Tx) InsertPagesInTx(bookID int64, imagePaths []string) error {
	if len(imagePaths) == 0 {
		return nil
	}

	insert := psql.Insert("book_pages").Columns("book_id", "page_number", "image_path")
	for i, path := range imagePaths {
		insert = insert.Values(bookID, i+1, path)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build page insert: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert pages: %w", err)
	}
	return nil
}

// SetPageCountInTx writes the final page count on the book row.
func (tx *Tx) SetPageCountInTx(bookID int64, count int) error {
	query, args, err := psql.Update("books").
		Set("page_count", count).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build page count update: %w", err)
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update page count: %w", err)
	}
	return nil
}
