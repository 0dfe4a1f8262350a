// filepath: internal/services/book_service_integration_test.go
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hkids/internal/config"
	hkidsdb "hkids/internal/db"
	"hkids/internal/repository"
	"hkids/internal/uploads"
)

const testDatabaseEnv = "HKIDS_TEST_DATABASE_URL"

type nopAuditor struct{}

func (nopAuditor) Log(context.Context, string, string, string, map[string]interface{}) {}

// recordingAuditor captures emitted events for assertions.
type recordingAuditor struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Action   string
	Actor    string
	Resource string
	Details  map[string]interface{}
}

func (a *recordingAuditor) Log(_ context.Context, action, actor, resource string, details map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, recordedEvent{action, actor, resource, details})
}

func (a *recordingAuditor) Events() []recordedEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]recordedEvent(nil), a.events...)
}

func setupBookService(t *testing.T) (*bookService, *repository.Repository) {
	t.Helper()

	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("set %s to run integration tests", testDatabaseEnv)
	}

	gw := hkidsdb.Open(func(key string) string {
		if key == "DATABASE_URL" {
			return dsn
		}
		return ""
	})
	repo, err := repository.NewRepository(gw)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchemaBootstrapped())

	_, err = repo.DB.Exec(`TRUNCATE books, book_pages RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	cfg := &config.Config{}
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.MaxPageFiles = 50
	cfg.MaxUploadSizeBytes = 50 << 20
	cfg.MaxAvatarSizeBytes = 5 << 20

	storage, err := NewStorageService(cfg)
	require.NoError(t, err)

	return NewBookService(repo, storage, cfg, nopAuditor{}), repo
}

// storedPage fabricates the on-disk state SaveAll would leave behind, so the
// test can exercise the deferred insert without a multipart request.
func storedPage(t *testing.T, dir, name string) uploads.StoredFile {
	t.Helper()
	diskPath := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(diskPath, []byte("png-bytes"), 0o644))
	return uploads.StoredFile{
		FieldName:  "pages",
		StoredName: name,
		DiskPath:   diskPath,
		PublicPath: uploads.PublicPrefix + name,
		MIMEType:   "image/png",
	}
}

func strptr(s string) *string { return &s }

func TestCreateBook_DeferredPageInsertCompletes(t *testing.T) {
	svc, _ := setupBookService(t)
	dir := svc.Cfg.Uploads.Dir

	pages := []uploads.StoredFile{
		storedPage(t, dir, "p1.png"),
		storedPage(t, dir, "p2.png"),
		storedPage(t, dir, "p3.png"),
	}

	resp, err := svc.CreateBook(BookInput{Title: strptr("Night Sky")}, nil, pages)
	require.NoError(t, err)
	assert.Equal(t, "Book created successfully", resp.Message)
	assert.NotEmpty(t, resp.Processing)

	// The create call returns before the page rows exist; the batch insert
	// lands shortly after.
	require.Eventually(t, func() bool {
		detail, err := svc.GetBook(resp.ID)
		return err == nil && detail.PageCount == 3
	}, 5*time.Second, 20*time.Millisecond)

	detail, err := svc.GetBook(resp.ID)
	require.NoError(t, err)
	require.Len(t, detail.Pages, 3)
	assert.Equal(t, 1, detail.Pages[0].PageNumber)
	assert.Equal(t, pages[0].PublicPath, detail.Pages[0].ImagePath)
}

func TestDeferredPageInsert_FailureLeavesNoPages(t *testing.T) {
	svc, repo := setupBookService(t)
	dir := svc.Cfg.Uploads.Dir

	rec := &recordingAuditor{}
	failing := NewBookService(repo, svc.Storage, svc.Cfg, rec)

	resp, err := failing.CreateBook(BookInput{Title: strptr("Vanishing")}, nil, nil)
	require.NoError(t, err)

	// Drop the book row out from under the deferred step; the page insert
	// then trips the foreign key and the whole transaction rolls back.
	_, err = repo.DB.Exec(`DELETE FROM books WHERE id = $1`, resp.ID)
	require.NoError(t, err)

	pages := []uploads.StoredFile{storedPage(t, dir, "doomed.png")}
	failing.insertPagesDeferred(resp.ID, pages)

	rows, err := repo.GetBookPages(resp.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "book.pages_failed", events[0].Action)
	assert.Equal(t, "system", events[0].Actor)
	assert.Equal(t, fmt.Sprintf("book:%d", resp.ID), events[0].Resource)
	assert.Equal(t, 1, events[0].Details["pages"])
}

func TestCreateBook_NoPagesStaysAtZero(t *testing.T) {
	svc, _ := setupBookService(t)

	resp, err := svc.CreateBook(BookInput{Title: strptr("Coverless")}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Processing)

	detail, err := svc.GetBook(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, detail.PageCount)
	assert.Empty(t, detail.Pages)
}

func TestDeleteBook_RemovesStoredFiles(t *testing.T) {
	svc, _ := setupBookService(t)
	dir := svc.Cfg.Uploads.Dir

	cover := storedPage(t, dir, "cover.png")
	page := storedPage(t, dir, "page1.png")

	resp, err := svc.CreateBook(BookInput{Title: strptr("Doomed")}, &cover, []uploads.StoredFile{page})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		detail, err := svc.GetBook(resp.ID)
		return err == nil && detail.PageCount == 1
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, svc.DeleteBook(resp.ID))

	_, err = svc.GetBook(resp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoFileExists(t, cover.DiskPath)
	assert.NoFileExists(t, page.DiskPath)
}

func TestUpdateBook_CoalescesOmittedFields(t *testing.T) {
	svc, _ := setupBookService(t)

	resp, err := svc.CreateBook(BookInput{
		Title:       strptr("Original"),
		Author:      strptr("A. Author"),
		AgeGroupMin: intRef(3),
		AgeGroupMax: intRef(7),
	}, nil, nil)
	require.NoError(t, err)

	_, err = svc.UpdateBook(resp.ID, BookInput{Title: strptr("Renamed")}, nil)
	require.NoError(t, err)

	detail, err := svc.GetBook(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", detail.Title)
	assert.Equal(t, "A. Author", detail.Author)
	assert.Equal(t, 3, detail.AgeGroupMin)
	assert.Equal(t, 7, detail.AgeGroupMax)
}

func TestCreateBook_InvalidAgeRange(t *testing.T) {
	svc, _ := setupBookService(t)

	_, err := svc.CreateBook(BookInput{
		Title:       strptr("Backwards"),
		AgeGroupMin: intRef(9),
		AgeGroupMax: intRef(4),
	}, nil, nil)
	assert.ErrorIs(t, err, ErrValidation)

	// A lone min above the default max of 12 is just as inverted.
	_, err = svc.CreateBook(BookInput{
		Title:       strptr("Backwards"),
		AgeGroupMin: intRef(20),
	}, nil, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateBook_OneBoundAgainstStoredRange(t *testing.T) {
	svc, _ := setupBookService(t)

	resp, err := svc.CreateBook(BookInput{
		Title:       strptr("Bounded"),
		AgeGroupMin: intRef(3),
		AgeGroupMax: intRef(7),
	}, nil, nil)
	require.NoError(t, err)

	// Raising only the min past the stored max must fail against the
	// coalesced row, not slip through because the max was omitted.
	_, err = svc.UpdateBook(resp.ID, BookInput{AgeGroupMin: intRef(10)}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateBook(resp.ID, BookInput{AgeGroupMax: intRef(1)}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	detail, err := svc.GetBook(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.AgeGroupMin)
	assert.Equal(t, 7, detail.AgeGroupMax)

	// A one-bound update that keeps the range valid still goes through.
	_, err = svc.UpdateBook(resp.ID, BookInput{AgeGroupMin: intRef(5)}, nil)
	require.NoError(t, err)
}

func intRef(v int) *int { return &v }
