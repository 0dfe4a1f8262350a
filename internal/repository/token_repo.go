// filepath: internal/repository/token_repo.go
package repository

import (
	"database/sql"
	"time"

	"hkids/internal/logging"
)

// StoreRefreshToken persists the hash of a refresh token.
func (s *Repository) StoreRefreshToken(userID int64, tokenHash string, expiry time.Time) error {
	_, err := s.DB.Exec(
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)",
		userID, tokenHash, expiry)
	return err
}

// ValidateRefreshToken looks up an unexpired token hash and returns the owning
// user id. A miss means the token was revoked, expired or never issued.
func (s *Repository) ValidateRefreshToken(tokenHash string) (int64, error) {
	var userID int64
	err := s.DB.QueryRow(
		"SELECT user_id FROM refresh_tokens WHERE token_hash = $1 AND expires_at > now()",
		tokenHash).Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// DeleteRefreshToken revokes a single refresh token.
func (s *Repository) DeleteRefreshToken(tokenHash string) error {
	_, err := s.DB.Exec("DELETE FROM refresh_tokens WHERE token_hash = $1", tokenHash)
	return err
}

// DeleteAllRefreshTokensForUser revokes every session of a user.
func (s *Repository) DeleteAllRefreshTokensForUser(userID int64) {
	if _, err := s.DB.Exec("DELETE FROM refresh_tokens WHERE user_id = $1", userID); err != nil {
		logging.Log.Warnf("DeleteAllRefreshTokensForUser: failed for user %d: %v", userID, err)
	}
}

// DeleteExpiredRefreshTokens removes stale rows; run by housekeeping.
func (s *Repository) DeleteExpiredRefreshTokens() (int64, error) {
	res, err := s.DB.Exec("DELETE FROM refresh_tokens WHERE expires_at <= now()")
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
