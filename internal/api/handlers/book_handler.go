// filepath: internal/api/handlers/book_handler.go
package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"hkids/internal/logging"
	"hkids/internal/repository"
	"hkids/internal/services"
)

// parseBookForm reads the multipart fields shared by create and update.
func parseBookForm(r *http.Request) (services.BookInput, error) {
	var input services.BookInput
	var err error

	input.Title = formString(r, "title")
	input.Author = formString(r, "author")
	input.Description = formString(r, "description")

	if input.CategoryID, err = formInt64(r, "category_id"); err != nil {
		return input, err
	}
	if input.AgeGroupMin, err = formInt(r, "age_group_min"); err != nil {
		return input, err
	}
	if input.AgeGroupMax, err = formInt(r, "age_group_max"); err != nil {
		return input, err
	}
	if input.IsPublished, err = formBool(r, "is_published"); err != nil {
		return input, err
	}
	return input, nil
}

// coverHeader returns the single optional cover file part, nil if omitted.
func coverHeader(r *http.Request) *multipart.FileHeader {
	if headers, ok := r.MultipartForm.File["cover"]; ok && len(headers) > 0 {
		return headers[0]
	}
	return nil
}

// @Summary Create a book
// @Description Creates a book from multipart form data. The optional 'cover' part is the cover image; the repeated 'pages' part carries the page images in reading order.
// @Description Page rows are inserted after the response is sent: the 'processing' field signals the batch is still pending. Poll GET /api/books/{id} until page_count is set.
// @Tags books
// @Accept  mpfd
// @Produce  json
// @Param   title          formData  string  true   "Book title"
// @Param   author         formData  string  false  "Author"
// @Param   description    formData  string  false  "Description"
// @Param   category_id    formData  int     false  "Category ID"
// @Param   age_group_min  formData  int     false  "Minimum age"
// @Param   age_group_max  formData  int     false  "Maximum age"
// @Param   is_published   formData  bool    false  "Publish immediately"
// @Param   cover          formData  file    false  "Cover image"
// @Param   pages          formData  file    false  "Page images (repeatable, max 50)"
// @Success 201 {object} models.BookCreatedResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 415 {object} ErrorResponse "Unsupported file type"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /books [post]
func (h *Handlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSizeBytes); err != nil {
		logging.Log.Warnf("CreateBook: failed to parse multipart form: %v", err)
		respondWithError(w, http.StatusBadRequest, "Failed to parse multipart form.")
		return
	}

	input, err := parseBookForm(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	saver := h.Storage.BookSaver()
	cover, err := saver.SaveOne("cover", coverHeader(r))
	if err != nil {
		respondWithServiceError(w, err, "CreateBook: cover")
		return
	}
	pages, err := saver.SaveAll("pages", r.MultipartForm.File["pages"])
	if err != nil {
		respondWithServiceError(w, err, "CreateBook: pages")
		return
	}

	resp, err := h.Book.CreateBook(input, cover, pages)
	if err != nil {
		respondWithServiceError(w, err, "CreateBook")
		return
	}

	h.Auditor.Log(r.Context(), "book.create", getUserFromContext(r),
		fmt.Sprintf("book:%d", resp.ID), map[string]interface{}{
			"pages": len(pages),
		})

	respondWithJSON(w, http.StatusCreated, resp)
}

// @Summary Update a book
// @Description Partially updates a book: omitted form fields keep their stored values. A new 'cover' part replaces the cover image. Pages cannot be changed after creation.
// @Tags books
// @Accept  mpfd
// @Produce  json
// @Param   id  path  int  true  "Book ID"
// @Success 200 {object} models.Book
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Book not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /books/{id} [put]
func (h *Handlers) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSizeBytes); err != nil {
		logging.Log.Warnf("UpdateBook: failed to parse multipart form: %v", err)
		respondWithError(w, http.StatusBadRequest, "Failed to parse multipart form.")
		return
	}

	input, err := parseBookForm(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	cover, err := h.Storage.BookSaver().SaveOne("cover", coverHeader(r))
	if err != nil {
		respondWithServiceError(w, err, "UpdateBook: cover")
		return
	}

	book, err := h.Book.UpdateBook(id, input, cover)
	if err != nil {
		respondWithServiceError(w, err, "UpdateBook")
		return
	}

	h.Auditor.Log(r.Context(), "book.update", getUserFromContext(r),
		fmt.Sprintf("book:%d", id), nil)

	respondWithJSON(w, http.StatusOK, book)
}

// @Summary Delete a book
// @Description Deletes a book and its pages. Stored files are removed best-effort; the delete succeeds even when files are already gone.
// @Tags books
// @Produce  json
// @Param   id  path  int  true  "Book ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Book not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /books/{id} [delete]
func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Book.DeleteBook(id); err != nil {
		respondWithServiceError(w, err, "DeleteBook")
		return
	}

	h.Auditor.Log(r.Context(), "book.delete", getUserFromContext(r),
		fmt.Sprintf("book:%d", id), nil)

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Book deleted successfully."})
}

// @Summary Get a book with its pages
// @Tags books
// @Produce  json
// @Param   id  path  int  true  "Book ID"
// @Success 200 {object} models.BookDetail
// @Failure 404 {object} ErrorResponse "Book not found"
// @Router /books/{id} [get]
func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.Book.GetBook(id)
	if err != nil {
		respondWithServiceError(w, err, "GetBook")
		return
	}
	respondWithJSON(w, http.StatusOK, book)
}

// @Summary List published books
// @Description Lists published books newest first. The age_group filter is inclusive on both ends of a book's age range.
// @Tags books
// @Produce  json
// @Param   age_group    query  int  false  "Age to filter by"
// @Param   category_id  query  int  false  "Category ID to filter by"
// @Success 200 {array} models.Book
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Router /books/published [get]
func (h *Handlers) GetPublishedBooks(w http.ResponseWriter, r *http.Request) {
	var filter repository.BookFilter
	var err error

	if filter.AgeGroup, err = queryInt(r, "age_group"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.CategoryID, err = queryInt64(r, "category_id"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	books, err := h.Book.GetPublishedBooks(filter)
	if err != nil {
		respondWithServiceError(w, err, "GetPublishedBooks")
		return
	}
	respondWithJSON(w, http.StatusOK, books)
}

// @Summary List all books
// @Description Lists every book regardless of publish state.
// @Tags books
// @Produce  json
// @Success 200 {array} models.Book
// @Security BearerAuth
// @Router /books [get]
func (h *Handlers) GetBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.Book.GetBooks()
	if err != nil {
		respondWithServiceError(w, err, "GetBooks")
		return
	}
	respondWithJSON(w, http.StatusOK, books)
}
