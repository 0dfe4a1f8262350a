// filepath: internal/repository/user_repo.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"hkids/internal/logging"
	"hkids/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// UserCreateArgs carries the plaintext password for creation; it never leaves
// the repository unhashed.
type UserCreateArgs struct {
	Username     string
	Password     string
	Role         models.Role
	KidProfileID *int64
}

// GetUserByUsername retrieves a user by their username, using a cache for performance.
func (s *Repository) GetUserByUsername(username string) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_name_%s", username)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	logging.Log.Debugf("GetUserByUsername: cache miss for '%s', querying DB", username)
	query := "SELECT id, username, password_hash, role, kid_profile_id, created_at FROM users WHERE username = $1"
	row := s.DB.QueryRow(query, username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.KidProfileID, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cacheUser(&user)
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (s *Repository) GetUserByID(id int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_id_%d", id)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	query := "SELECT id, username, password_hash, role, kid_profile_id, created_at FROM users WHERE id = $1"
	row := s.DB.QueryRow(query, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.KidProfileID, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.cacheUser(&user)
	return &user, nil
}

func (s *Repository) cacheUser(user *models.User) {
	s.Cache.SetDefault(fmt.Sprintf("user_by_name_%s", user.Username), user)
	s.Cache.SetDefault(fmt.Sprintf("user_by_id_%d", user.ID), user)
}

func (s *Repository) invalidateUser(user *models.User) {
	s.Cache.Delete(fmt.Sprintf("user_by_name_%s", user.Username))
	s.Cache.Delete(fmt.Sprintf("user_by_id_%d", user.ID))
}

// UserExists checks if a user with the given username exists.
func (s *Repository) UserExists(username string) (bool, error) {
	_, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateUser creates a new user in the database.
func (s *Repository) CreateUser(args *UserCreateArgs) (*models.User, error) {
	logging.Log.Debugf("CreateUser: hashing password for '%s'", args.Username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(args.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (username, password_hash, role, kid_profile_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	user := models.User{
		Username:     args.Username,
		PasswordHash: string(hashedPassword),
		Role:         args.Role,
		KidProfileID: args.KidProfileID,
	}
	err = s.DB.QueryRow(query, args.Username, string(hashedPassword), args.Role, args.KidProfileID).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	logging.Log.Debugf("CreateUser: user '%s' created with ID %d", user.Username, user.ID)
	return &user, nil
}

// UpdateUserPassword re-hashes and stores a new password for a user.
func (s *Repository) UpdateUserPassword(username, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var id int64
	err = s.DB.QueryRow("UPDATE users SET password_hash = $1 WHERE username = $2 RETURNING id",
		string(hashedPassword), username).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	// Both cache keys hold the same stale hash.
	s.invalidateUser(&models.User{ID: id, Username: username})
	return nil
}

// GetUsers retrieves all users ordered by id.
func (s *Repository) GetUsers() ([]models.User, error) {
	rows, err := s.DB.Query("SELECT id, username, password_hash, role, kid_profile_id, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.KidProfileID, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetAdminUsers returns every user with the admin role.
func (s *Repository) GetAdminUsers() ([]models.User, error) {
	rows, err := s.DB.Query("SELECT id, username, password_hash, role, kid_profile_id, created_at FROM users WHERE role = $1", models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.KidProfileID, &user.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, user)
	}
	return admins, rows.Err()
}

// DeleteUser removes a user row. Kid profiles owned by the user cascade.
func (s *Repository) DeleteUser(id int64) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if _, err := s.DB.Exec("DELETE FROM users WHERE id = $1", id); err != nil {
		return err
	}
	s.invalidateUser(user)
	return nil
}
