// filepath: internal/api/handlers/main_test.go
package handlers

import (
	"testing"
	"time"

	"hkids/internal/config"
	"hkids/internal/models"
	"hkids/internal/services"
	"hkids/internal/services/auth"
	"hkids/internal/services/mocks"

	"github.com/stretchr/testify/require"
)

// testMocks bundles the service mocks wired into a Handlers under test.
type testMocks struct {
	Info     *mocks.MockInfoService
	User     *mocks.MockUserService
	Book     *mocks.MockBookService
	Category *mocks.MockCategoryService
	Kids     *mocks.MockKidsService
	Token    *mocks.MockTokenService
	House    *mocks.MockHousekeepingService
}

// newTestHandlers builds a Handlers with all services mocked and a real
// storage service rooted in a temp dir, so multipart uploads actually land
// on disk during the test.
func newTestHandlers(t *testing.T) (*Handlers, *testMocks) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Uploads.Dir = t.TempDir()
	require.NoError(t, cfg.ParseAndValidate())

	storage, err := services.NewStorageService(cfg)
	require.NoError(t, err)

	m := &testMocks{
		Info:     new(mocks.MockInfoService),
		User:     new(mocks.MockUserService),
		Book:     new(mocks.MockBookService),
		Category: new(mocks.MockCategoryService),
		Kids:     new(mocks.MockKidsService),
		Token:    new(mocks.MockTokenService),
		House:    new(mocks.MockHousekeepingService),
	}

	limiter := auth.NewRateLimiter(5, 15*time.Minute, 30*time.Minute)
	t.Cleanup(limiter.Stop)

	h := NewHandlers(
		m.Info,
		m.User,
		m.Book,
		m.Category,
		m.Kids,
		m.House,
		m.Token,
		mocks.NoopAuditor{},
		storage,
		limiter,
		cfg,
	)
	return h, m
}

// testParent is the authenticated user injected into parent-scoped requests.
var testParent = &models.User{ID: 7, Username: "jane", Role: models.RoleParent}
