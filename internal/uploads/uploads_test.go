// filepath: internal/uploads/uploads_test.go
package uploads

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formWithFiles builds a multipart request carrying the given files under
// one field and returns the parsed headers.
func formWithFiles(t *testing.T, field string, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, contentType := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field]
}

func TestSaveOne(t *testing.T) {
	saver, err := NewSaver(t.TempDir(), 1<<20, 10)
	require.NoError(t, err)

	headers := formWithFiles(t, "cover", map[string]string{"cover.png": "image/png"})
	stored, err := saver.SaveOne("cover", headers[0])
	require.NoError(t, err)

	assert.Equal(t, "image/png", stored.MIMEType)
	assert.True(t, strings.HasPrefix(stored.PublicPath, PublicPrefix))
	assert.True(t, strings.HasSuffix(stored.StoredName, ".png"))
	assert.Equal(t, "cover.png", stored.OriginalName)

	data, err := os.ReadFile(stored.DiskPath)
	require.NoError(t, err)
	assert.Equal(t, "file-content", string(data))
}

func TestSaveOne_NilHeader(t *testing.T) {
	saver, err := NewSaver(t.TempDir(), 1<<20, 10)
	require.NoError(t, err)

	stored, err := saver.SaveOne("cover", nil)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSaveOne_ExtensionFallback(t *testing.T) {
	saver, err := NewSaver(t.TempDir(), 1<<20, 10)
	require.NoError(t, err)

	// No Content-Type on the part; the filename extension decides.
	headers := formWithFiles(t, "pages", map[string]string{"scan.PDF": ""})
	stored, err := saver.SaveOne("pages", headers[0])
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", stored.MIMEType)
	assert.True(t, strings.HasSuffix(stored.StoredName, ".pdf"))
}

func TestSaveOne_RejectsUnknownType(t *testing.T) {
	saver, err := NewSaver(t.TempDir(), 1<<20, 10)
	require.NoError(t, err)

	headers := formWithFiles(t, "pages", map[string]string{"tool.exe": "application/octet-stream"})
	_, err = saver.SaveOne("pages", headers[0])
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSaveOne_SizeLimit(t *testing.T) {
	saver, err := NewSaver(t.TempDir(), 4, 10) // 4 bytes
	require.NoError(t, err)

	headers := formWithFiles(t, "pages", map[string]string{"big.png": "image/png"})
	_, err = saver.SaveOne("pages", headers[0])
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "size limit")
}

func TestSaveAll_CountLimit(t *testing.T) {
	root := t.TempDir()
	saver, err := NewSaver(root, 1<<20, 2)
	require.NoError(t, err)

	headers := formWithFiles(t, "pages", map[string]string{
		"a.png": "image/png",
		"b.png": "image/png",
		"c.png": "image/png",
	})
	_, err = saver.SaveAll("pages", headers)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	// Nothing was written: the count check precedes any disk write.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveAll_CleansUpOnFailure(t *testing.T) {
	root := t.TempDir()
	saver, err := NewSaver(root, 1<<20, 10)
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range []struct{ name, ct string }{
		{"ok.png", "image/png"},
		{"bad.exe", "application/octet-stream"},
	} {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pages"; filename=%q`, f.name))
		h.Set("Content-Type", f.ct)
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	_, err = saver.SaveAll("pages", req.MultipartForm.File["pages"])
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial writes must be cleaned up")
}

func TestStoredNamesAreUnique(t *testing.T) {
	root := t.TempDir()
	saver, err := NewSaver(root, 1<<20, 10)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		headers := formWithFiles(t, "pages", map[string]string{"same.png": "image/png"})
		stored, err := saver.SaveOne("pages", headers[0])
		require.NoError(t, err)
		assert.False(t, seen[stored.StoredName])
		seen[stored.StoredName] = true
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}
