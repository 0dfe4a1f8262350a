// filepath: internal/api/handlers/category_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// categoryRequest is the JSON body for category create and update.
type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// @Summary List categories
// @Tags categories
// @Produce  json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Category.GetCategories()
	if err != nil {
		respondWithServiceError(w, err, "GetCategories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

// @Summary Create a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category  body  categoryRequest  true  "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Name already exists"
// @Security BearerAuth
// @Router /categories [post]
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.Category.CreateCategory(req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, err, "CreateCategory")
		return
	}

	h.Auditor.Log(r.Context(), "category.create", getUserFromContext(r),
		fmt.Sprintf("category:%d", category.ID), nil)

	respondWithJSON(w, http.StatusCreated, category)
}

// @Summary Update a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   id        path  int              true  "Category ID"
// @Param   category  body  categoryRequest  true  "Category"
// @Success 200 {object} models.Category
// @Failure 404 {object} ErrorResponse "Category not found"
// @Failure 409 {object} ErrorResponse "Name already exists"
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.Category.UpdateCategory(id, req.Name, req.Description)
	if err != nil {
		respondWithServiceError(w, err, "UpdateCategory")
		return
	}

	h.Auditor.Log(r.Context(), "category.update", getUserFromContext(r),
		fmt.Sprintf("category:%d", id), nil)

	respondWithJSON(w, http.StatusOK, category)
}

// @Summary Delete a category
// @Description Deletes a category. Books keep their rows; their category reference is cleared.
// @Tags categories
// @Produce  json
// @Param   id  path  int  true  "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Category not found"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Category.DeleteCategory(id); err != nil {
		respondWithServiceError(w, err, "DeleteCategory")
		return
	}

	h.Auditor.Log(r.Context(), "category.delete", getUserFromContext(r),
		fmt.Sprintf("category:%d", id), nil)

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Category deleted successfully."})
}
