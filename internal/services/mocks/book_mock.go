// filepath: internal/services/mocks/book_mock.go
package mocks

import (
	"github.com/stretchr/testify/mock"

	"hkids/internal/models"
	"hkids/internal/repository"
	"hkids/internal/services"
	"hkids/internal/uploads"
)

// MockBookService is a mock implementation of services.BookService
type MockBookService struct {
	mock.Mock
}

// Compile-time check to ensure interface compliance
var _ services.BookService = (*MockBookService)(nil)

func (m *MockBookService) CreateBook(input services.BookInput, cover *uploads.StoredFile, pages []uploads.StoredFile) (*models.BookCreatedResponse, error) {
	args := m.Called(input, cover, pages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookCreatedResponse), args.Error(1)
}

func (m *MockBookService) UpdateBook(id int64, input services.BookInput, cover *uploads.StoredFile) (*models.Book, error) {
	args := m.Called(id, input, cover)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) DeleteBook(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockBookService) GetBook(id int64) (*models.BookDetail, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookDetail), args.Error(1)
}

func (m *MockBookService) GetBooks() ([]models.Book, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) GetPublishedBooks(filter repository.BookFilter) ([]models.Book, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}
