// filepath: internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"hkids/internal/config"
	"hkids/internal/logging"
	"hkids/internal/models"
	"hkids/internal/repository"
)

var _ UserService = (*userService)(nil)

const minPasswordLength = 8

type userService struct {
	Repo *repository.Repository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository) *userService {
	return &userService{Repo: repo}
}

func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.Repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByID(id int64) (*models.User, error) {
	user, err := s.Repo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUsers() ([]models.User, error) {
	return s.Repo.GetUsers()
}

func (s *userService) UpdateUserPassword(username, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if err := s.Repo.UpdateUserPassword(username, password); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logging.Log.Errorf("UserService: failed to update password for %q: %v", username, err)
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) CreateUser(args repository.UserCreateArgs) (*models.User, error) {
	if args.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(args.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if !args.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, args.Role)
	}

	user, err := s.Repo.CreateUser(&args)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, args.Username)
		}
		logging.Log.Errorf("UserService: failed to create user %q: %v", args.Username, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Signup is the public registration path. It only ever creates parent
// accounts; admin and kid accounts are provisioned through other flows.
func (s *userService) Signup(username, password string) (*models.User, error) {
	return s.CreateUser(repository.UserCreateArgs{
		Username: username,
		Password: password,
		Role:     models.RoleParent,
	})
}

// DeleteUser removes an account. The last remaining admin cannot be deleted.
func (s *userService) DeleteUser(id int64) error {
	user, err := s.Repo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.Role == models.RoleAdmin {
		admins, err := s.Repo.GetAdminUsers()
		if err != nil {
			return err
		}
		if len(admins) <= 1 {
			return fmt.Errorf("%w: cannot delete the last admin user", ErrValidation)
		}
	}

	if err := s.Repo.DeleteUser(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		logging.Log.Errorf("UserService: failed to delete user %d: %v", id, err)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// InitializeAdminUser makes sure an admin account exists at startup. When an
// admin password is configured and ResetAdminPassword is set, existing admin
// passwords are overwritten, which is the recovery path for a lost password.
func (s *userService) InitializeAdminUser(cfg *config.Config) error {
	admins, err := s.Repo.GetAdminUsers()
	if err != nil {
		return fmt.Errorf("failed to look up admin users: %w", err)
	}

	if len(admins) == 0 {
		if cfg.AdminPassword == "" {
			return fmt.Errorf("no admin user exists and no admin password is configured")
		}
		_, err := s.Repo.CreateUser(&repository.UserCreateArgs{
			Username: "admin",
			Password: cfg.AdminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logging.Log.Info("UserService: created initial admin user")
		return nil
	}

	if cfg.ResetAdminPassword && cfg.AdminPassword != "" {
		for _, admin := range admins {
			if err := s.Repo.UpdateUserPassword(admin.Username, cfg.AdminPassword); err != nil {
				return fmt.Errorf("failed to reset password for %q: %w", admin.Username, err)
			}
			logging.Log.Warnf("UserService: reset password for admin user %q", admin.Username)
		}
	}
	return nil
}
