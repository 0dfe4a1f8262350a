// filepath: internal/services/mocks/category_mock.go
package mocks

import (
	"github.com/stretchr/testify/mock"

	"hkids/internal/models"
	"hkids/internal/services"
)

// MockCategoryService is a mock implementation of services.CategoryService
type MockCategoryService struct {
	mock.Mock
}

// Compile-time check to ensure interface compliance
var _ services.CategoryService = (*MockCategoryService)(nil)

func (m *MockCategoryService) GetCategories() ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryService) CreateCategory(name, description string) (*models.Category, error) {
	args := m.Called(name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(id int64, name, description string) (*models.Category, error) {
	args := m.Called(id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}
