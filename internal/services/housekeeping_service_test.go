// filepath: internal/services/housekeeping_service_test.go
package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ageFile pushes a file's mtime past the orphan grace period.
func ageFile(t *testing.T, path string) {
	t.Helper()
	old := time.Now().Add(-2 * orphanGracePeriod)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestHousekeeping_SweepsOnlyAgedOrphans(t *testing.T) {
	bookSvc, repo := setupBookService(t)
	dir := bookSvc.Cfg.Uploads.Dir
	svc := NewHousekeepingService(repo, bookSvc.Storage, time.Hour)

	// A referenced cover file: old, but a book row points at it.
	cover := storedPage(t, dir, "kept-cover.png")
	_, err := bookSvc.CreateBook(BookInput{Title: strptr("Keeper")}, &cover, nil)
	require.NoError(t, err)
	ageFile(t, cover.DiskPath)

	// An orphan past the grace period and one still inside it.
	agedOrphan := filepath.Join(dir, "aged-orphan.png")
	require.NoError(t, os.WriteFile(agedOrphan, []byte("x"), 0o644))
	ageFile(t, agedOrphan)

	youngOrphan := filepath.Join(dir, "young-orphan.png")
	require.NoError(t, os.WriteFile(youngOrphan, []byte("x"), 0o644))

	report, err := svc.Trigger()
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrphanFilesRemoved)

	assert.FileExists(t, cover.DiskPath)
	assert.NoFileExists(t, agedOrphan)
	assert.FileExists(t, youngOrphan)
}

func TestHousekeeping_StartIsIdempotent(t *testing.T) {
	bookSvc, repo := setupBookService(t)
	svc := NewHousekeepingService(repo, bookSvc.Storage, time.Hour)

	svc.Start()
	svc.Start()
	svc.Stop()
	svc.Stop()
}

func TestHousekeeping_MissingUploadDir(t *testing.T) {
	bookSvc, repo := setupBookService(t)
	svc := NewHousekeepingService(repo, bookSvc.Storage, time.Hour)

	require.NoError(t, os.RemoveAll(bookSvc.Storage.Root))

	report, err := svc.Trigger()
	require.NoError(t, err)
	assert.Zero(t, report.OrphanFilesRemoved)
}
