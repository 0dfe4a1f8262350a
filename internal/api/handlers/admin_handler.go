// filepath: internal/api/handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"hkids/internal/models"
	"hkids/internal/repository"
)

// createUserRequest is the JSON body for admin user creation.
type createUserRequest struct {
	Username     string      `json:"username"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role"`
	KidProfileID *int64      `json:"kid_profile_id,omitempty"`
}

// updateUserRequest is the JSON body for admin password resets.
type updateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// deleteUserRequest is the JSON body for admin user deletion.
type deleteUserRequest struct {
	ID int64 `json:"id"`
}

// @Summary List users
// @Tags admin
// @Produce  json
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /users [get]
func (h *Handlers) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.User.GetUsers()
	if err != nil {
		respondWithServiceError(w, err, "GetUsers")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// @Summary Create a user
// @Description Creates an account with an explicit role. Kid accounts may be linked to a kid profile.
// @Tags admin
// @Accept   json
// @Produce  json
// @Param   user  body  createUserRequest  true  "User"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Username taken"
// @Security BearerAuth
// @Router /user [post]
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.User.CreateUser(repository.UserCreateArgs{
		Username:     req.Username,
		Password:     req.Password,
		Role:         req.Role,
		KidProfileID: req.KidProfileID,
	})
	if err != nil {
		respondWithServiceError(w, err, "CreateUser")
		return
	}

	h.Auditor.Log(r.Context(), "user.create", getUserFromContext(r),
		fmt.Sprintf("user:%d", user.ID), map[string]interface{}{"role": string(user.Role)})

	respondWithJSON(w, http.StatusCreated, user)
}

// @Summary Reset a user's password
// @Tags admin
// @Accept   json
// @Produce  json
// @Param   user  body  updateUserRequest  true  "Username and new password"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /user [patch]
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.User.UpdateUserPassword(req.Username, req.Password); err != nil {
		respondWithServiceError(w, err, "UpdateUser")
		return
	}

	h.Auditor.Log(r.Context(), "user.password_reset", getUserFromContext(r), req.Username, nil)

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Password updated."})
}

// @Summary Delete a user
// @Description Deletes an account. The last remaining admin cannot be deleted.
// @Tags admin
// @Accept   json
// @Produce  json
// @Param   user  body  deleteUserRequest  true  "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Last admin"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /user [delete]
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.User.DeleteUser(req.ID); err != nil {
		respondWithServiceError(w, err, "DeleteUser")
		return
	}

	h.Auditor.Log(r.Context(), "user.delete", getUserFromContext(r),
		fmt.Sprintf("user:%d", req.ID), nil)

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "User deleted successfully."})
}

// @Summary Trigger housekeeping
// @Description Runs the orphan-file and expired-token sweep immediately and reports what was removed.
// @Tags admin
// @Produce  json
// @Success 200 {object} services.HousekeepingReport
// @Security BearerAuth
// @Router /admin/housekeeping [post]
func (h *Handlers) TriggerHousekeeping(w http.ResponseWriter, r *http.Request) {
	report, err := h.Housekeeping.Trigger()
	if err != nil {
		respondWithServiceError(w, err, "TriggerHousekeeping")
		return
	}

	h.Auditor.Log(r.Context(), "admin.housekeeping", getUserFromContext(r), "uploads", map[string]interface{}{
		"orphan_files_removed":   report.OrphanFilesRemoved,
		"expired_tokens_removed": report.ExpiredTokensRemoved,
	})

	respondWithJSON(w, http.StatusOK, report)
}
