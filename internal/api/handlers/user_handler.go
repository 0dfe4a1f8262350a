// filepath: internal/api/handlers/user_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// passwordRequest is the JSON body for password changes.
type passwordRequest struct {
	Password string `json:"password"`
}

// @Summary Get own account
// @Tags users
// @Produce  json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /me [get]
func (h *Handlers) GetUserMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// @Summary Change own password
// @Tags users
// @Accept   json
// @Produce  json
// @Param   password  body  passwordRequest  true  "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Password too short"
// @Security BearerAuth
// @Router /me [patch]
func (h *Handlers) UpdateUserMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.User.UpdateUserPassword(user.Username, req.Password); err != nil {
		respondWithServiceError(w, err, "UpdateUserMe")
		return
	}

	h.Auditor.Log(r.Context(), "user.password_change", user.Username, "self", nil)

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Password updated."})
}
