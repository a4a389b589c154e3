package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBackupPathForStorage(t *testing.T) {
	assert.Equal(t, "/data/chronos.db.bak.1", GetBackupPathForStorage("/data/chronos.db", 1))
	assert.Equal(t, "/data/chronos.db.bak.3", GetBackupPathForStorage("/data/chronos.db", 3))
}

func TestBackup_RotatesAndKeepsMax(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for i := 0; i < MaxBackupCount+2; i++ {
		_, err := s.Insert(ctx, "2024-01-15", "09:00", "entry")
		require.NoError(t, err)
		require.NoError(t, s.Backup(ctx))
	}

	backups, err := ListBackups(s.Path())
	require.NoError(t, err)
	require.Len(t, backups, MaxBackupCount)
	for i, b := range backups {
		assert.Equal(t, i+1, b.Number)
	}

	_, err = os.Stat(GetBackupPathForStorage(s.Path(), MaxBackupCount+1))
	assert.True(t, os.IsNotExist(err), "no backup beyond MaxBackupCount")
}

func TestBackup_SnapshotIsReadable(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Insert(ctx, "2024-01-15", "09:00", "before backup")
	require.NoError(t, err)
	require.NoError(t, s.Backup(ctx))

	backup, err := Open(GetBackupPathForStorage(s.Path(), 1))
	require.NoError(t, err)
	defer backup.Close()

	entries, err := backup.QueryByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "before backup", entries[0].Label)
}

func TestListBackups_None(t *testing.T) {
	backups, err := ListBackups(filepath.Join(t.TempDir(), "chronos.db"))
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestRestoreBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chronos.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Insert(ctx, "2024-01-15", "09:00", "kept")
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.Close())

	require.NoError(t, RestoreBackup(path, 1))

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.QueryByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Label)
}

func TestRestoreBackup_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronos.db")

	err := RestoreBackup(path, 2)
	require.Error(t, err)
	var serr *Error
	assert.ErrorAs(t, err, &serr)
}

func TestRestoreBackup_OutOfRange(t *testing.T) {
	err := RestoreBackup(filepath.Join(t.TempDir(), "chronos.db"), MaxBackupCount+1)
	assert.ErrorContains(t, err, "backup number must be between 1 and 3")
}
