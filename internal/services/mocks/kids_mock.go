// filepath: internal/services/mocks/kids_mock.go
package mocks

import (
	"github.com/stretchr/testify/mock"

	"hkids/internal/models"
	"hkids/internal/services"
	"hkids/internal/uploads"
)

// MockKidsService is a mock implementation of services.KidsService
type MockKidsService struct {
	mock.Mock
}

// Compile-time check to ensure interface compliance
var _ services.KidsService = (*MockKidsService)(nil)

func (m *MockKidsService) GetProfiles(parentID int64) ([]models.KidProfile, error) {
	args := m.Called(parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KidProfile), args.Error(1)
}

func (m *MockKidsService) CreateProfile(parentID int64, name string, age *int, avatar *uploads.StoredFile) (*models.KidProfile, error) {
	args := m.Called(parentID, name, age, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KidProfile), args.Error(1)
}

func (m *MockKidsService) UpdateProfile(parentID, profileID int64, name *string, age *int, avatar *uploads.StoredFile) (*models.KidProfile, error) {
	args := m.Called(parentID, profileID, name, age, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KidProfile), args.Error(1)
}

func (m *MockKidsService) DeleteProfile(parentID, profileID int64) error {
	args := m.Called(parentID, profileID)
	return args.Error(0)
}

func (m *MockKidsService) SetApproval(parentID, profileID, categoryID int64, approved bool) error {
	args := m.Called(parentID, profileID, categoryID, approved)
	return args.Error(0)
}

func (m *MockKidsService) GetApprovals(parentID, profileID int64) ([]models.ParentApproval, error) {
	args := m.Called(parentID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ParentApproval), args.Error(1)
}

func (m *MockKidsService) GetApprovedBooks(parentID, profileID int64, ageGroup *int) ([]models.Book, error) {
	args := m.Called(parentID, profileID, ageGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}
