// filepath: internal/services/housekeeping_service.go
package services

import (
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"hkids/internal/logging"
	"hkids/internal/repository"
	"hkids/internal/uploads"
)

var _ HousekeepingService = (*housekeepingService)(nil)

// orphanGracePeriod protects freshly written uploads from the sweep. A book's
// page files exist on disk before their rows commit, so anything younger than
// this is assumed to be in flight.
const orphanGracePeriod = time.Hour

// HousekeepingReport summarizes one sweep.
type HousekeepingReport struct {
	OrphanFilesRemoved   int   `json:"orphan_files_removed"`
	ExpiredTokensRemoved int64 `json:"expired_tokens_removed"`
}

// housekeepingService periodically removes upload files no database row
// references anymore and prunes expired refresh tokens.
type housekeepingService struct {
	Repo     *repository.Repository
	Storage  *StorageService
	Interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewHousekeepingService creates a new HousekeepingService.
func NewHousekeepingService(repo *repository.Repository, storage *StorageService, interval time.Duration) *housekeepingService {
	return &housekeepingService{Repo: repo, Storage: storage, Interval: interval}
}

// Start launches the periodic sweep. Calling Start twice is a no-op.
func (s *housekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})

	go func(stop chan struct{}) {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.Trigger(); err != nil {
					logging.Log.Errorf("Housekeeping: sweep failed: %v", err)
				}
			case <-stop:
				return
			}
		}
	}(s.stop)

	logging.Log.Infof("Housekeeping: sweeping every %s", s.Interval)
}

// Stop halts the periodic sweep.
func (s *housekeepingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// Trigger runs one sweep immediately and reports what was removed.
func (s *housekeepingService) Trigger() (*HousekeepingReport, error) {
	report := &HousekeepingReport{}

	removed, err := s.sweepOrphanFiles()
	if err != nil {
		return nil, err
	}
	report.OrphanFilesRemoved = removed

	tokens, err := s.Repo.DeleteExpiredRefreshTokens()
	if err != nil {
		return nil, err
	}
	report.ExpiredTokensRemoved = tokens

	if report.OrphanFilesRemoved > 0 || report.ExpiredTokensRemoved > 0 {
		logging.Log.Infof("Housekeeping: removed %d orphan files, %d expired tokens",
			report.OrphanFilesRemoved, report.ExpiredTokensRemoved)
	}
	return report, nil
}

func (s *housekeepingService) sweepOrphanFiles() (int, error) {
	referenced, err := s.Repo.GetReferencedFilePaths()
	if err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(s.Storage.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		publicPath := path.Join(uploads.PublicPrefix, entry.Name())
		if _, ok := referenced[publicPath]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < orphanGracePeriod {
			continue
		}

		if err := os.Remove(filepath.Join(s.Storage.Root, entry.Name())); err != nil {
			logging.Log.Warnf("Housekeeping: failed to remove orphan %q: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
