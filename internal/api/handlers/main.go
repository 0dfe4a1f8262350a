// filepath: internal/api/handlers/main.go
package handlers

import (
	"net/http"

	"hkids/internal/config"
	"hkids/internal/services"
	"hkids/internal/services/auth"
)

// Handlers holds the shared dependencies for the API handlers.
type Handlers struct {
	// Depend on interfaces, not concrete structs.
	Info         services.InfoService
	User         services.UserService
	Book         services.BookService
	Category     services.CategoryService
	Kids         services.KidsService
	Housekeeping services.HousekeepingService
	Token        auth.TokenService
	Auditor      services.Auditor

	Storage      *services.StorageService
	LoginLimiter *auth.RateLimiter
	Cfg          *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	user services.UserService,
	book services.BookService,
	category services.CategoryService,
	kids services.KidsService,
	housekeeping services.HousekeepingService,
	token auth.TokenService,
	auditor services.Auditor,
	storage *services.StorageService,
	loginLimiter *auth.RateLimiter,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:         info,
		User:         user,
		Book:         book,
		Category:     category,
		Kids:         kids,
		Housekeeping: housekeeping,
		Token:        token,
		Auditor:      auditor,
		Storage:      storage,
		LoginLimiter: loginLimiter,
		Cfg:          cfg,
	}
}

// getUserFromContext returns the authenticated username for audit logging,
// or "anonymous" on public routes.
func getUserFromContext(r *http.Request) string {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		return user.Username
	}
	return "anonymous"
}
