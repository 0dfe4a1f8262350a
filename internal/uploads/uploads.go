// filepath: internal/uploads/uploads.go

// Package uploads validates multipart file parts and writes them to the
// upload directory under generated names. Handlers consume the resulting
// StoredFile lists by field name.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"hkids/internal/logging"
)

// PublicPrefix is the URL prefix under which stored files are served.
const PublicPrefix = "/uploads/"

// Validation errors, normalized so handlers can map them to a 400 with a
// message distinguishing the size-limit, count-limit and type cases.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// allowedTypes maps the accepted MIME types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// StoredFile describes one uploaded file after it has been written to disk.
type StoredFile struct {
	FieldName    string
	OriginalName string
	StoredName   string
	DiskPath     string
	PublicPath   string
	MIMEType     string
	Size         int64
}

// Saver writes validated multipart files into Root.
type Saver struct {
	Root        string
	MaxFileSize int64
	MaxFiles    int
}

// NewSaver creates the upload directory if needed and returns a Saver.
func NewSaver(root string, maxFileSize int64, maxFiles int) (*Saver, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &Saver{Root: root, MaxFileSize: maxFileSize, MaxFiles: maxFiles}, nil
}

// SaveOne stores a single file part. A nil header is not an error; it simply
// returns nil (the field was omitted).
func (s *Saver) SaveOne(field string, header *multipart.FileHeader) (*StoredFile, error) {
	if header == nil {
		return nil, nil
	}
	stored, err := s.save(field, header)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// SaveAll stores every file uploaded under one field, preserving submission
// order. It enforces the per-field count limit before writing anything.
func (s *Saver) SaveAll(field string, headers []*multipart.FileHeader) ([]StoredFile, error) {
	if s.MaxFiles > 0 && len(headers) > s.MaxFiles {
		return nil, validationErrorf("too many files for field %q: got %d, limit is %d", field, len(headers), s.MaxFiles)
	}

	stored := make([]StoredFile, 0, len(headers))
	for _, header := range headers {
		f, err := s.save(field, header)
		if err != nil {
			// Clean up what was already written for this request.
			for _, prev := range stored {
				if rmErr := os.Remove(prev.DiskPath); rmErr != nil && !os.IsNotExist(rmErr) {
					logging.Log.Warnf("uploads: failed to remove partial upload %s: %v", prev.DiskPath, rmErr)
				}
			}
			return nil, err
		}
		stored = append(stored, *f)
	}
	return stored, nil
}

func (s *Saver) save(field string, header *multipart.FileHeader) (*StoredFile, error) {
	if s.MaxFileSize > 0 && header.Size > s.MaxFileSize {
		return nil, validationErrorf("file %q exceeds the size limit of %d bytes", header.Filename, s.MaxFileSize)
	}

	mimeType, ext, err := resolveType(header)
	if err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := strings.ToLower(ulid.Make().String()) + ext
	diskPath := filepath.Join(s.Root, name)

	dst, err := os.Create(diskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create stored file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(diskPath)
		return nil, fmt.Errorf("failed to write stored file: %w", err)
	}

	return &StoredFile{
		FieldName:    field,
		OriginalName: header.Filename,
		StoredName:   name,
		DiskPath:     diskPath,
		PublicPath:   PublicPrefix + name,
		MIMEType:     mimeType,
		Size:         size,
	}, nil
}

// resolveType checks the declared content type against the allow-list,
// falling back to the filename extension when the part carries no type.
func resolveType(header *multipart.FileHeader) (mimeType, ext string, err error) {
	mimeType = header.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	if storedExt, ok := allowedTypes[mimeType]; ok {
		return mimeType, storedExt, nil
	}

	// Some clients omit the part content type; fall back to the extension.
	switch strings.ToLower(path.Ext(header.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", ".jpg", nil
	case ".png":
		return "image/png", ".png", nil
	case ".gif":
		return "image/gif", ".gif", nil
	case ".pdf":
		return "application/pdf", ".pdf", nil
	}

	return "", "", validationErrorf("unsupported file type %q for %q: allowed types are JPEG, PNG, GIF and PDF", mimeType, header.Filename)
}
