package store

import (
	"context"
	"github.com/half-nothing/simple-fsd-client/internal/base"
	"github.com/half-nothing/simple-fsd-client/internal/interfaces/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLocalStoreArchive(t *testing.T) {
	sourceDir := t.TempDir()
	storeDir := t.TempDir()
	source := filepath.Join(sourceDir, "raw_ABCD.log")
	require.NoError(t, os.WriteFile(source, []byte("#APABCD:SERVER:1234567:*****:1:101:1:Pilot\r\n"), 0644))

	storeConfig := &config.ArchiveStore{
		Enabled:         true,
		StoreType:       config.StoreLocal,
		LocalStorePath:  storeDir,
		RemoteStorePath: "fsd-client",
		DeleteAfterSave: true,
	}
	store := NewLocalStore(base.NewDiscardLogger(), storeConfig)
	store.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, store.Archive(context.Background(), []string{source}))

	archived := filepath.Join(storeDir, "2025-03-14", "raw_ABCD.log")
	content, err := os.ReadFile(archived)
	require.NoError(t, err)
	assert.Contains(t, string(content), "#APABCD")

	_, err = os.Stat(source)
	assert.True(t, os.IsNotExist(err), "source should be removed after archive")
}

func TestLocalStoreSaveFileRemotePath(t *testing.T) {
	source := filepath.Join(t.TempDir(), "statistics.txt")
	require.NoError(t, os.WriteFile(source, []byte("total"), 0644))

	store := NewLocalStore(base.NewDiscardLogger(), &config.ArchiveStore{
		LocalStorePath:  t.TempDir(),
		RemoteStorePath: "archive/client",
	})
	store.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }

	archived, err := store.SaveFile(source)
	require.NoError(t, err)
	assert.Equal(t, "archive/client/2025-01-02/statistics.txt", archived.RemotePath)

	_, err = os.Stat(source)
	assert.NoError(t, err, "source must be kept when delete_after_save is off")
}

func TestLocalStoreMissingSource(t *testing.T) {
	store := NewLocalStore(base.NewDiscardLogger(), &config.ArchiveStore{LocalStorePath: t.TempDir()})
	err := store.Archive(context.Background(), []string{filepath.Join(t.TempDir(), "missing.log")})
	assert.Error(t, err)
}

func TestNewArchiver(t *testing.T) {
	logger := base.NewDiscardLogger()

	archiver, err := NewArchiver(logger, &config.ArchiveStore{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, archiver)

	archiver, err = NewArchiver(logger, &config.ArchiveStore{Enabled: true, StoreType: config.StoreLocal, LocalStorePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, archiver)

	_, err = NewArchiver(logger, &config.ArchiveStore{Enabled: true, StoreType: 9})
	assert.ErrorIs(t, err, ErrUnsupportedStore)
}
