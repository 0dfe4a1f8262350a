// filepath: internal/services/storage_service.go
package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hkids/internal/config"
	"hkids/internal/logging"
	"hkids/internal/uploads"
)

// StorageService owns the upload directory: it hands out validated savers
// for the different routes and deletes stored files when rows go away.
type StorageService struct {
	Root string

	bookSaver   *uploads.Saver
	avatarSaver *uploads.Saver
}

// NewStorageService creates the upload directory and the per-route savers.
// Book routes accept files up to the 50MB route limit; avatars keep the
// legacy 5MB generic limit.
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	bookSaver, err := uploads.NewSaver(cfg.Uploads.Dir, cfg.MaxUploadSizeBytes, cfg.Uploads.MaxPageFiles)
	if err != nil {
		return nil, err
	}
	avatarSaver, err := uploads.NewSaver(cfg.Uploads.Dir, cfg.MaxAvatarSizeBytes, 1)
	if err != nil {
		return nil, err
	}
	return &StorageService{
		Root:        cfg.Uploads.Dir,
		bookSaver:   bookSaver,
		avatarSaver: avatarSaver,
	}, nil
}

// BookSaver returns the saver used for covers and page files.
func (s *StorageService) BookSaver() *uploads.Saver { return s.bookSaver }

// AvatarSaver returns the saver used for kid profile avatars.
func (s *StorageService) AvatarSaver() *uploads.Saver { return s.avatarSaver }

// DeleteStoredFile removes a stored file given its public path. Deletion is
// best-effort: a missing file is not an error, and failures are only logged.
func (s *StorageService) DeleteStoredFile(publicPath string) {
	diskPath, err := s.resolvePublicPath(publicPath)
	if err != nil {
		logging.Log.Warnf("StorageService: refusing to delete %q: %v", publicPath, err)
		return
	}
	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		logging.Log.Warnf("StorageService: failed to delete %s: %v", diskPath, err)
	}
}

// resolvePublicPath maps a /uploads/... path back onto the upload directory,
// rejecting anything that would escape it.
func (s *StorageService) resolvePublicPath(publicPath string) (string, error) {
	if !strings.HasPrefix(publicPath, uploads.PublicPrefix) {
		return "", fmt.Errorf("not an upload path")
	}
	name := strings.TrimPrefix(publicPath, uploads.PublicPrefix)

	fullPath := filepath.Clean(filepath.Join(s.Root, name))
	cleanedRoot := filepath.Clean(s.Root)
	if !strings.HasPrefix(fullPath, cleanedRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path")
	}
	return fullPath, nil
}
