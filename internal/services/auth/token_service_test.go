// filepath: internal/services/auth/token_service_test.go
package auth

import (
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hkids/internal/config"
	hkidsdb "hkids/internal/db"
	"hkids/internal/models"
	"hkids/internal/repository"
	"hkids/internal/services"
)

const testDatabaseEnv = "HKIDS_TEST_DATABASE_URL"

// setupTokenService wires the real repository, user service and token service
// against the test database, mirroring the production wiring in the server
// command. Skips when no test database is configured.
func setupTokenService(t *testing.T) (TokenService, services.UserService, *repository.Repository, *config.Config) {
	t.Helper()

	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("set %s to run integration tests", testDatabaseEnv)
	}

	gw := hkidsdb.Open(func(key string) string {
		if key == "DATABASE_URL" {
			return dsn
		}
		return ""
	})
	repo, err := repository.NewRepository(gw)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchemaBootstrapped())

	_, err = repo.DB.Exec(`TRUNCATE users, refresh_tokens RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	secret, err := GenerateSecret()
	require.NoError(t, err)
	cfg := &config.Config{JWTSecret: secret}
	cfg.JWT.AccessDurationMin = 15
	cfg.JWT.RefreshDurationHours = 168

	userSvc := services.NewUserService(repo)
	return NewTokenService(cfg, userSvc, repo), userSvc, repo, cfg
}

func createTestUser(t *testing.T, userSvc services.UserService, username string, role models.Role) *models.User {
	t.Helper()
	user, err := userSvc.CreateUser(repository.UserCreateArgs{
		Username: username,
		Password: "correct-horse-battery",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	tokenSvc, userSvc, _, _ := setupTokenService(t)
	user := createTestUser(t, userSvc, "jane", models.RoleParent)

	access, refresh, err := tokenSvc.GenerateTokens(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	got, err := tokenSvc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, models.RoleParent, got.Role)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	tokenSvc, userSvc, _, _ := setupTokenService(t)
	user := createTestUser(t, userSvc, "jane", models.RoleParent)

	access, _, err := tokenSvc.GenerateTokens(user)
	require.NoError(t, err)

	otherSecret, err := GenerateSecret()
	require.NoError(t, err)
	otherCfg := &config.Config{JWTSecret: otherSecret}
	otherCfg.JWT.AccessDurationMin = 15
	otherSvc := NewTokenService(otherCfg, userSvc, nil)

	_, err = otherSvc.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	tokenSvc, userSvc, _, cfg := setupTokenService(t)
	user := createTestUser(t, userSvc, "jane", models.RoleParent)

	// Sign an already-expired token with the live secret.
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"iss":      "hkids",
		"exp":      jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = tokenSvc.ValidateAccessToken(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRefreshToken_StatefulValidation(t *testing.T) {
	tokenSvc, userSvc, _, _ := setupTokenService(t)
	user := createTestUser(t, userSvc, "jane", models.RoleParent)

	_, refresh, err := tokenSvc.GenerateTokens(user)
	require.NoError(t, err)

	got, err := tokenSvc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	tokenSvc, userSvc, _, _ := setupTokenService(t)
	user := createTestUser(t, userSvc, "jane", models.RoleParent)

	_, refresh, err := tokenSvc.GenerateTokens(user)
	require.NoError(t, err)

	require.NoError(t, tokenSvc.Logout(refresh))

	// The token still carries a valid signature but is gone from the
	// database allow-list.
	_, err = tokenSvc.ValidateRefreshToken(refresh)
	assert.Error(t, err)
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	_, userSvc, repo, _ := setupTokenService(t)
	user := createTestUser(t, userSvc, "jane", models.RoleParent)

	require.NoError(t, repo.StoreRefreshToken(user.ID, "stale-hash", time.Now().Add(-time.Hour)))
	require.NoError(t, repo.StoreRefreshToken(user.ID, "fresh-hash", time.Now().Add(time.Hour)))

	removed, err := repo.DeleteExpiredRefreshTokens()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.ValidateRefreshToken("fresh-hash")
	assert.NoError(t, err)
}
