// filepath: internal/api/handlers/utils.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hkids/internal/logging"
	"hkids/internal/services"
	"hkids/internal/uploads"
)

// pathID extracts the {id} route variable as an int64.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// Optional form field parsers. A missing field yields nil; a present but
// malformed value yields an error so the handler can 400.

func formString(r *http.Request, field string) *string {
	if values, ok := r.MultipartForm.Value[field]; ok && len(values) > 0 {
		return &values[0]
	}
	return nil
}

func formInt(r *http.Request, field string) (*int, error) {
	raw := formString(r, field)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", field, *raw)
	}
	return &v, nil
}

func formInt64(r *http.Request, field string) (*int64, error) {
	raw := formString(r, field)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", field, *raw)
	}
	return &v, nil
}

func formBool(r *http.Request, field string) (*bool, error) {
	raw := formString(r, field)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseBool(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", field, *raw)
	}
	return &v, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
	}
	return &v, nil
}

// queryInt64 parses an optional int64 query parameter.
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
	}
	return &v, nil
}

// respondWithServiceError maps service-layer sentinel errors onto HTTP
// status codes. Unknown errors become a generic 500; the detail is logged
// server-side only.
func respondWithServiceError(w http.ResponseWriter, err error, op string) {
	var ve *uploads.ValidationError

	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnsupported):
		respondWithError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Error())
	default:
		logging.Log.Errorf("%s: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
