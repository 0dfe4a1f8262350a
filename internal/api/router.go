// filepath: internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"hkids/internal/api/handlers"
	"hkids/internal/models"
	"hkids/internal/services/auth"
	"hkids/internal/uploads"
)

// SetupRouter configures the main router and its sub-routers: public
// endpoints, the authenticated API surface with per-role gates, and the
// static file server for uploads.
func SetupRouter(h *handlers.Handlers, am *auth.Middleware, uploadDir string) *mux.Router {
	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Public auth endpoints (not behind AuthMiddleware)
	r.HandleFunc("/api/token", h.GetToken).Methods("POST")
	r.HandleFunc("/api/token/refresh", h.RefreshToken).Methods("POST")
	r.HandleFunc("/api/signup", h.Signup).Methods("POST")

	// Public catalog endpoints
	r.HandleFunc("/api/books/published", h.GetPublishedBooks).Methods("GET")
	r.HandleFunc("/api/books/{id:[0-9]+}", h.GetBook).Methods("GET")
	r.HandleFunc("/api/categories", h.GetCategories).Methods("GET")

	// Uploaded files (covers, pages, avatars)
	r.PathPrefix(uploads.PublicPrefix).Handler(
		http.StripPrefix(uploads.PublicPrefix, http.FileServer(http.Dir(uploadDir))))

	// Authenticated API routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(am.AuthMiddleware)

	apiRouter.HandleFunc("/logout", h.Logout).Methods("POST")

	addBookRoutes(apiRouter, h, am)
	addCategoryRoutes(apiRouter, h, am)
	addKidsRoutes(apiRouter, h, am)
	addUserRoutes(apiRouter, h)
	addAdminRoutes(apiRouter, h, am)

	return r
}

// addBookRoutes configures the book write path and the admin catalog view.
func addBookRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireRoles(models.RoleAdmin))
	adminRouter.HandleFunc("/books", h.GetBooks).Methods("GET")
	adminRouter.HandleFunc("/books", h.CreateBook).Methods("POST")
	adminRouter.HandleFunc("/books/{id:[0-9]+}", h.UpdateBook).Methods("PUT")
	adminRouter.HandleFunc("/books/{id:[0-9]+}", h.DeleteBook).Methods("DELETE")
}

// addCategoryRoutes configures category management. Reading is public and
// registered on the root router.
func addCategoryRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireRoles(models.RoleAdmin))
	adminRouter.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	adminRouter.HandleFunc("/categories/{id:[0-9]+}", h.UpdateCategory).Methods("PUT")
	adminRouter.HandleFunc("/categories/{id:[0-9]+}", h.DeleteCategory).Methods("DELETE")
}

// addKidsRoutes configures kid profile and approval management for parents.
func addKidsRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	kidsRouter := r.PathPrefix("").Subrouter()
	kidsRouter.Use(am.RequireRoles(models.RoleParent, models.RoleAdmin))
	kidsRouter.HandleFunc("/kids", h.GetKidProfiles).Methods("GET")
	kidsRouter.HandleFunc("/kids", h.CreateKidProfile).Methods("POST")
	kidsRouter.HandleFunc("/kids/{id:[0-9]+}", h.UpdateKidProfile).Methods("PUT")
	kidsRouter.HandleFunc("/kids/{id:[0-9]+}", h.DeleteKidProfile).Methods("DELETE")
	kidsRouter.HandleFunc("/kids/{id:[0-9]+}/approvals", h.SetApproval).Methods("PUT")
	kidsRouter.HandleFunc("/kids/{id:[0-9]+}/approvals", h.GetApprovals).Methods("GET")
	kidsRouter.HandleFunc("/kids/{id:[0-9]+}/books", h.GetApprovedBooks).Methods("GET")
}

// addUserRoutes configures self-service account actions. These only require
// a valid login, which AuthMiddleware already checks.
func addUserRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/me", h.GetUserMe).Methods("GET")
	r.HandleFunc("/me", h.UpdateUserMe).Methods("PATCH")
}

// addAdminRoutes configures administrative actions on users and maintenance.
func addAdminRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireRoles(models.RoleAdmin))
	adminRouter.HandleFunc("/users", h.GetUsers).Methods("GET")
	adminRouter.HandleFunc("/user", h.CreateUser).Methods("POST")
	adminRouter.HandleFunc("/user", h.UpdateUser).Methods("PATCH")
	adminRouter.HandleFunc("/user", h.DeleteUser).Methods("DELETE")
	adminRouter.HandleFunc("/admin/housekeeping", h.TriggerHousekeeping).Methods("POST")
}
