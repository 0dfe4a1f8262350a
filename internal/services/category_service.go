// filepath: internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"hkids/internal/logging"
	"hkids/internal/models"
	"hkids/internal/repository"
)

var _ CategoryService = (*categoryService)(nil)

type categoryService struct {
	Repo *repository.Repository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo *repository.Repository) *categoryService {
	return &categoryService{Repo: repo}
}

func (s *categoryService) GetCategories() ([]models.Category, error) {
	return s.Repo.GetCategories()
}

func (s *categoryService) CreateCategory(name, description string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	created, err := s.Repo.CreateCategory(&models.Category{Name: name, Description: description})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		logging.Log.Errorf("CategoryService: failed to create category %q: %v", name, err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

func (s *categoryService) UpdateCategory(id int64, name, description string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	err := s.Repo.UpdateCategory(&models.Category{ID: id, Name: name, Description: description})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		logging.Log.Errorf("CategoryService: failed to update category %d: %v", id, err)
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.Repo.GetCategory(id)
}

// DeleteCategory removes the category. Books referencing it are kept and
// their category_id set to NULL by the schema.
func (s *categoryService) DeleteCategory(id int64) error {
	if err := s.Repo.DeleteCategory(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logging.Log.Errorf("CategoryService: failed to delete category %d: %v", id, err)
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
