// filepath: internal/api/handlers/book_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hkids/internal/models"
	"hkids/internal/repository"
	"hkids/internal/services"
)

// bookTestRouter mounts the book routes without any auth middleware; role
// gating is covered by the router tests.
func bookTestRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/books", h.CreateBook).Methods("POST")
	r.HandleFunc("/api/books", h.GetBooks).Methods("GET")
	r.HandleFunc("/api/books/published", h.GetPublishedBooks).Methods("GET")
	r.HandleFunc("/api/books/{id:[0-9]+}", h.GetBook).Methods("GET")
	r.HandleFunc("/api/books/{id:[0-9]+}", h.UpdateBook).Methods("PUT")
	r.HandleFunc("/api/books/{id:[0-9]+}", h.DeleteBook).Methods("DELETE")
	return r
}

// buildBookForm writes a multipart body with the given fields and the given
// number of PNG page files.
func buildBookForm(t *testing.T, fields map[string]string, pageCount int) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for i := 0; i < pageCount; i++ {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pages"; filename="page%d.png"`, i+1))
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateBook_WithPages(t *testing.T) {
	h, m := newTestHandlers(t)
	router := bookTestRouter(h)

	m.Book.On("CreateBook", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.BookCreatedResponse{
			ID:         42,
			Message:    "Book created successfully",
			Processing: "Pages are being processed...",
		}, nil).Once()

	body, contentType := buildBookForm(t, map[string]string{"title": "The Lost Map"}, 3)
	req := httptest.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 42, resp["id"])
	assert.Equal(t, "Book created successfully", resp["message"])
	assert.Equal(t, "Pages are being processed...", resp["processing"])

	m.Book.AssertExpectations(t)
}

func TestCreateBook_NoPages_OmitsProcessing(t *testing.T) {
	h, m := newTestHandlers(t)
	router := bookTestRouter(h)

	m.Book.On("CreateBook", mock.Anything, mock.Anything, mock.Anything).
		Return(&models.BookCreatedResponse{ID: 7, Message: "Book created successfully"}, nil).Once()

	body, contentType := buildBookForm(t, map[string]string{"title": "Quiet Night"}, 0)
	req := httptest.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "processing")
}

func TestCreateBook_MissingTitle(t *testing.T) {
	h, m := newTestHandlers(t)
	router := bookTestRouter(h)

	m.Book.On("CreateBook", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: title is required", services.ErrValidation)).Once()

	body, contentType := buildBookForm(t, map[string]string{"author": "nobody"}, 0)
	req := httptest.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestCreateBook_TooManyPages(t *testing.T) {
	h, m := newTestHandlers(t)
	// Lower the page-file limit so the case is cheap to trigger.
	h.Cfg.Uploads.MaxPageFiles = 2
	storage, err := services.NewStorageService(h.Cfg)
	require.NoError(t, err)
	h.Storage = storage
	router := bookTestRouter(h)

	body, contentType := buildBookForm(t, map[string]string{"title": "Big Book"}, 3)
	req := httptest.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The service is never reached.
	m.Book.AssertNotCalled(t, "CreateBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBook_UnsupportedFileType(t *testing.T) {
	h, m := newTestHandlers(t)
	router := bookTestRouter(h)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Evil Book"))
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="pages"; filename="page.exe"`)
	header.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/books", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.Book.AssertNotCalled(t, "CreateBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBook_NotFound(t *testing.T) {
	h, m := newTestHandlers(t)
	router := bookTestRouter(h)

	m.Book.On("UpdateBook", int64(99), mock.Anything, mock.Anything).
		Return(nil, services.ErrNotFound).Once()

	body, contentType := buildBookForm(t, map[string]string{"title": "New Title"}, 0)
	req := httptest.NewRequest("PUT", "/api/books/99", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBook(t *testing.T) {
	h, m := newTestHandlers(t)
	router := bookTestRouter(h)

	m.Book.On("DeleteBook", int64(5)).Return(nil).Once()

	req := httptest.NewRequest("DELETE", "/api/books/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	m.Book.AssertExpectations(t)
}

func TestGetPublishedBooks_AgeFilter(t *testing.T) {
	h, m := newTestHandlers(t)
	router := bookTestRouter(h)

	m.Book.On("GetPublishedBooks", mock.MatchedBy(func(f repository.BookFilter) bool {
		return f.AgeGroup != nil && *f.AgeGroup == 6
	})).Return([]models.Book{{ID: 1, Title: "Fox Tales"}}, nil).Once()

	req := httptest.NewRequest("GET", "/api/books/published?age_group=6", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fox Tales")
}

func TestGetPublishedBooks_BadAgeFilter(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := bookTestRouter(h)

	req := httptest.NewRequest("GET", "/api/books/published?age_group=banana", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
