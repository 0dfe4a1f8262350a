// filepath: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"50MB", 50 << 20, false},
		{"5MB", 5 << 20, false},
		{"1G", 1 << 30, false},
		{"512K", 512 << 10, false},
		{"2TB", 2 << 40, false},
		{"100", 100, false},
		{" 10 MB ", 10 << 20, false},
		{"10mb", 10 << 20, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.ParseAndValidate())

	// Book uploads get the large route limit, avatars keep the small one.
	assert.Equal(t, int64(50<<20), cfg.MaxUploadSizeBytes)
	assert.Equal(t, int64(5<<20), cfg.MaxAvatarSizeBytes)
	assert.Equal(t, 50, cfg.Uploads.MaxPageFiles)
}

func TestParseAndValidate_InvalidSize(t *testing.T) {
	cfg := &Config{}
	cfg.Uploads.MaxUploadSize = "lots"
	err := cfg.ParseAndValidate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_upload_size")
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{}
	cfg.Server.Port = 3000
	cfg.Uploads.Dir = "uploads"
	cfg.JWT.Secret = "abc123"
	cfg.Logging.Level = "debug"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, loaded.Server.Port)
	assert.Equal(t, "uploads", loaded.Uploads.Dir)
	assert.Equal(t, "abc123", loaded.JWT.Secret)
	assert.Equal(t, "debug", loaded.Logging.Level)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
