// filepath: internal/api/handlers/kids_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hkids/internal/models"
	"hkids/internal/services"
	"hkids/internal/services/auth"
)

// asUser injects an authenticated user the way AuthMiddleware would.
func asUser(user *models.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
	})
}

func kidsTestRouter(h *Handlers, user *models.User) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/kids", h.GetKidProfiles).Methods("GET")
	r.HandleFunc("/api/kids/{id:[0-9]+}", h.DeleteKidProfile).Methods("DELETE")
	r.HandleFunc("/api/kids/{id:[0-9]+}/approvals", h.SetApproval).Methods("PUT")
	r.HandleFunc("/api/kids/{id:[0-9]+}/books", h.GetApprovedBooks).Methods("GET")
	return asUser(user, r)
}

func TestGetKidProfiles_ScopedToParent(t *testing.T) {
	h, m := newTestHandlers(t)
	router := kidsTestRouter(h, testParent)

	m.Kids.On("GetProfiles", testParent.ID).
		Return([]models.KidProfile{{ID: 1, ParentID: testParent.ID, Name: "Milo"}}, nil).Once()

	req := httptest.NewRequest("GET", "/api/kids", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Milo")
	m.Kids.AssertExpectations(t)
}

func TestDeleteKidProfile_Foreign(t *testing.T) {
	h, m := newTestHandlers(t)
	router := kidsTestRouter(h, testParent)

	m.Kids.On("DeleteProfile", testParent.ID, int64(9)).Return(services.ErrForbidden).Once()

	req := httptest.NewRequest("DELETE", "/api/kids/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSetApproval(t *testing.T) {
	h, m := newTestHandlers(t)
	router := kidsTestRouter(h, testParent)

	m.Kids.On("SetApproval", testParent.ID, int64(3), int64(2), true).Return(nil).Once()

	b, _ := json.Marshal(map[string]interface{}{"category_id": 2, "approved": true})
	req := httptest.NewRequest("PUT", "/api/kids/3/approvals", bytes.NewBuffer(b))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	m.Kids.AssertExpectations(t)
}

func TestGetApprovedBooks_PassesAgeFilter(t *testing.T) {
	h, m := newTestHandlers(t)
	router := kidsTestRouter(h, testParent)

	m.Kids.On("GetApprovedBooks", testParent.ID, int64(3), mock.MatchedBy(func(age *int) bool {
		return age != nil && *age == 5
	})).Return([]models.Book{}, nil).Once()

	req := httptest.NewRequest("GET", "/api/kids/3/books?age_group=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	m.Kids.AssertExpectations(t)
}
