// filepath: internal/api/handlers/kids_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"hkids/internal/logging"
	"hkids/internal/models"
	"hkids/internal/services/auth"
)

// requireUser pulls the authenticated user out of the context. Routes using
// it sit behind AuthMiddleware, so a miss is a wiring bug.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		logging.Log.Errorf("requireUser: no user in context for %s", r.URL.Path)
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return user, true
}

func avatarHeader(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if headers, ok := r.MultipartForm.File["avatar"]; ok && len(headers) > 0 {
		return headers[0]
	}
	return nil
}

// approvalRequest is the JSON body for setting a category approval.
type approvalRequest struct {
	CategoryID int64 `json:"category_id"`
	Approved   bool  `json:"approved"`
}

// @Summary List kid profiles
// @Description Lists the kid profiles owned by the authenticated parent.
// @Tags kids
// @Produce  json
// @Success 200 {array} models.KidProfile
// @Security BearerAuth
// @Router /kids [get]
func (h *Handlers) GetKidProfiles(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	profiles, err := h.Kids.GetProfiles(user.ID)
	if err != nil {
		respondWithServiceError(w, err, "GetKidProfiles")
		return
	}
	respondWithJSON(w, http.StatusOK, profiles)
}

// @Summary Create a kid profile
// @Tags kids
// @Accept  mpfd
// @Produce  json
// @Param   name    formData  string  true   "Profile name"
// @Param   age     formData  int     false  "Age"
// @Param   avatar  formData  file    false  "Avatar image"
// @Success 201 {object} models.KidProfile
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /kids [post]
func (h *Handlers) CreateKidProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxAvatarSizeBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to parse multipart form.")
		return
	}

	name := ""
	if n := formString(r, "name"); n != nil {
		name = *n
	}
	age, err := formInt(r, "age")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	avatar, err := h.Storage.AvatarSaver().SaveOne("avatar", avatarHeader(r))
	if err != nil {
		respondWithServiceError(w, err, "CreateKidProfile: avatar")
		return
	}

	profile, err := h.Kids.CreateProfile(user.ID, name, age, avatar)
	if err != nil {
		respondWithServiceError(w, err, "CreateKidProfile")
		return
	}

	h.Auditor.Log(r.Context(), "kid.create", user.Username,
		fmt.Sprintf("kid:%d", profile.ID), nil)

	respondWithJSON(w, http.StatusCreated, profile)
}

// @Summary Update a kid profile
// @Tags kids
// @Accept  mpfd
// @Produce  json
// @Param   id  path  int  true  "Profile ID"
// @Success 200 {object} models.KidProfile
// @Failure 403 {object} ErrorResponse "Profile belongs to another parent"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Security BearerAuth
// @Router /kids/{id} [put]
func (h *Handlers) UpdateKidProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxAvatarSizeBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to parse multipart form.")
		return
	}

	name := formString(r, "name")
	age, err := formInt(r, "age")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	avatar, err := h.Storage.AvatarSaver().SaveOne("avatar", avatarHeader(r))
	if err != nil {
		respondWithServiceError(w, err, "UpdateKidProfile: avatar")
		return
	}

	profile, err := h.Kids.UpdateProfile(user.ID, id, name, age, avatar)
	if err != nil {
		respondWithServiceError(w, err, "UpdateKidProfile")
		return
	}

	h.Auditor.Log(r.Context(), "kid.update", user.Username,
		fmt.Sprintf("kid:%d", id), nil)

	respondWithJSON(w, http.StatusOK, profile)
}

// @Summary Delete a kid profile
// @Tags kids
// @Produce  json
// @Param   id  path  int  true  "Profile ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse "Profile belongs to another parent"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Security BearerAuth
// @Router /kids/{id} [delete]
func (h *Handlers) DeleteKidProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Kids.DeleteProfile(user.ID, id); err != nil {
		respondWithServiceError(w, err, "DeleteKidProfile")
		return
	}

	h.Auditor.Log(r.Context(), "kid.delete", user.Username,
		fmt.Sprintf("kid:%d", id), nil)

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Profile deleted successfully."})
}

// @Summary Set a category approval
// @Description Approves or revokes one category for a kid profile. Writes upsert on the (profile, category) pair.
// @Tags kids
// @Accept  json
// @Produce  json
// @Param   id        path  int              true  "Profile ID"
// @Param   approval  body  approvalRequest  true  "Approval"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Unknown category"
// @Failure 403 {object} ErrorResponse "Profile belongs to another parent"
// @Security BearerAuth
// @Router /kids/{id}/approvals [put]
func (h *Handlers) SetApproval(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Kids.SetApproval(user.ID, id, req.CategoryID, req.Approved); err != nil {
		respondWithServiceError(w, err, "SetApproval")
		return
	}

	h.Auditor.Log(r.Context(), "kid.approval", user.Username,
		fmt.Sprintf("kid:%d", id), map[string]interface{}{
			"category_id": req.CategoryID,
			"approved":    req.Approved,
		})

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Approval updated."})
}

// @Summary List category approvals
// @Tags kids
// @Produce  json
// @Param   id  path  int  true  "Profile ID"
// @Success 200 {array} models.ParentApproval
// @Failure 403 {object} ErrorResponse "Profile belongs to another parent"
// @Security BearerAuth
// @Router /kids/{id}/approvals [get]
func (h *Handlers) GetApprovals(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	approvals, err := h.Kids.GetApprovals(user.ID, id)
	if err != nil {
		respondWithServiceError(w, err, "GetApprovals")
		return
	}
	respondWithJSON(w, http.StatusOK, approvals)
}

// @Summary List books visible to a kid profile
// @Description Lists published books restricted to the profile's approved categories. Books without a category are excluded.
// @Tags kids
// @Produce  json
// @Param   id         path   int  true   "Profile ID"
// @Param   age_group  query  int  false  "Age to filter by"
// @Success 200 {array} models.Book
// @Failure 403 {object} ErrorResponse "Profile belongs to another parent"
// @Security BearerAuth
// @Router /kids/{id}/books [get]
func (h *Handlers) GetApprovedBooks(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	age, err := queryInt(r, "age_group")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	books, err := h.Kids.GetApprovedBooks(user.ID, id, age)
	if err != nil {
		respondWithServiceError(w, err, "GetApprovedBooks")
		return
	}
	respondWithJSON(w, http.StatusOK, books)
}
