// filepath: internal/services/kids_service.go
package services

import (
	"errors"
	"fmt"

	"hkids/internal/logging"
	"hkids/internal/models"
	"hkids/internal/repository"
	"hkids/internal/uploads"
)

var _ KidsService = (*kidsService)(nil)

// kidsService manages kid profiles and category approvals. Every operation
// takes the requesting parent's user ID and refuses to touch profiles owned
// by anyone else.
type kidsService struct {
	Repo    *repository.Repository
	Storage *StorageService
}

// NewKidsService creates a new KidsService.
func NewKidsService(repo *repository.Repository, storage *StorageService) *kidsService {
	return &kidsService{Repo: repo, Storage: storage}
}

// ownedProfile loads a profile and verifies the parent owns it. A profile
// that exists but belongs to another parent yields ErrForbidden, not
// ErrNotFound. There is no admin bypass; profiles are always scoped to the
// requesting user.
func (s *kidsService) ownedProfile(parentID, profileID int64) (*models.KidProfile, error) {
	profile, err := s.Repo.GetKidProfile(profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if profile.ParentID != parentID {
		return nil, ErrForbidden
	}
	return profile, nil
}

func (s *kidsService) GetProfiles(parentID int64) ([]models.KidProfile, error) {
	return s.Repo.GetKidProfiles(parentID)
}

func (s *kidsService) CreateProfile(parentID int64, name string, age *int, avatar *uploads.StoredFile) (*models.KidProfile, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	profile := &models.KidProfile{ParentID: parentID, Name: name, Age: age}
	if avatar != nil {
		profile.Avatar = &avatar.PublicPath
	}

	created, err := s.Repo.CreateKidProfile(profile)
	if err != nil {
		logging.Log.Errorf("KidsService: failed to create profile %q for parent %d: %v", name, parentID, err)
		return nil, fmt.Errorf("failed to create kid profile: %w", err)
	}
	return created, nil
}

func (s *kidsService) UpdateProfile(parentID, profileID int64, name *string, age *int, avatar *uploads.StoredFile) (*models.KidProfile, error) {
	profile, err := s.ownedProfile(parentID, profileID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		profile.Name = *name
	}
	if age != nil {
		profile.Age = age
	}

	oldAvatar := ""
	if avatar != nil {
		if profile.Avatar != nil {
			oldAvatar = *profile.Avatar
		}
		profile.Avatar = &avatar.PublicPath
	}

	if err := s.Repo.UpdateKidProfile(profile); err != nil {
		logging.Log.Errorf("KidsService: failed to update profile %d: %v", profileID, err)
		return nil, fmt.Errorf("failed to update kid profile: %w", err)
	}

	if oldAvatar != "" {
		s.Storage.DeleteStoredFile(oldAvatar)
	}
	return profile, nil
}

func (s *kidsService) DeleteProfile(parentID, profileID int64) error {
	profile, err := s.ownedProfile(parentID, profileID)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteKidProfile(profileID); err != nil {
		logging.Log.Errorf("KidsService: failed to delete profile %d: %v", profileID, err)
		return fmt.Errorf("failed to delete kid profile: %w", err)
	}

	if profile.Avatar != nil {
		s.Storage.DeleteStoredFile(*profile.Avatar)
	}
	return nil
}

// SetApproval upserts the approval flag for one (profile, category) pair.
func (s *kidsService) SetApproval(parentID, profileID, categoryID int64, approved bool) error {
	if _, err := s.ownedProfile(parentID, profileID); err != nil {
		return err
	}
	if _, err := s.Repo.GetCategory(categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: category %d does not exist", ErrValidation, categoryID)
		}
		return err
	}

	err := s.Repo.UpsertApproval(&models.ParentApproval{
		KidProfileID: profileID,
		CategoryID:   categoryID,
		Approved:     approved,
	})
	if err != nil {
		logging.Log.Errorf("KidsService: failed to set approval for profile %d category %d: %v", profileID, categoryID, err)
		return fmt.Errorf("failed to set approval: %w", err)
	}
	return nil
}

func (s *kidsService) GetApprovals(parentID, profileID int64) ([]models.ParentApproval, error) {
	if _, err := s.ownedProfile(parentID, profileID); err != nil {
		return nil, err
	}
	return s.Repo.GetApprovals(profileID)
}

// GetApprovedBooks returns published books restricted to the profile's
// approved categories. Books without a category are never included here.
func (s *kidsService) GetApprovedBooks(parentID, profileID int64, ageGroup *int) ([]models.Book, error) {
	if _, err := s.ownedProfile(parentID, profileID); err != nil {
		return nil, err
	}
	return s.Repo.GetPublishedBooks(repository.BookFilter{
		AgeGroup:     ageGroup,
		KidProfileID: &profileID,
	})
}
