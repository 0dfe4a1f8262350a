// filepath: internal/repository/category_repo.go
package repository

import (
	"database/sql"
	"fmt"

	"hkids/internal/models"
)

// GetCategories returns all categories ordered by name.
func (s *Repository) GetCategories() ([]models.Category, error) {
	query, args, err := s.Builder.Select("id", "name", "description").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a single category by id.
func (s *Repository) GetCategory(id int64) (*models.Category, error) {
	var c models.Category
	err := s.DB.QueryRow("SELECT id, name, description FROM categories WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category; the name is unique.
func (s *Repository) CreateCategory(c *models.Category) (*models.Category, error) {
	err := s.DB.QueryRow(
		"INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id",
		c.Name, c.Description).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

// UpdateCategory writes name and description.
func (s *Repository) UpdateCategory(c *models.Category) error {
	res, err := s.DB.Exec("UPDATE categories SET name = $1, description = $2 WHERE id = $3",
		c.Name, c.Description, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Books keep their rows with a NULL
// category; approvals referencing it cascade.
func (s *Repository) DeleteCategory(id int64) error {
	res, err := s.DB.Exec("DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
