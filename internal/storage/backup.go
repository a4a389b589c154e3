package storage

import (
	"context"
	"fmt"
	"os"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Number int    // The backup number (1 is the most recent)
	Path   string // The full path to the backup file
}

// GetBackupPathForStorage returns the path of backup n for a database file,
// e.g. chronos.db.bak.1. Lower numbers are more recent.
func GetBackupPathForStorage(storagePath string, n int) string {
	return fmt.Sprintf("%s%s.%d", storagePath, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 -> .bak.3 and deletes the oldest, so
// that .bak.1 is free for a new backup.
func rotateBackups(storagePath string) error {
	oldest := GetBackupPathForStorage(storagePath, MaxBackupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := MaxBackupCount - 1; i >= 1; i-- {
		current := GetBackupPathForStorage(storagePath, i)
		next := GetBackupPathForStorage(storagePath, i+1)
		if err := os.Rename(current, next); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// Backup writes a consistent snapshot of the database to .bak.1 after
// rotating older backups. VACUUM INTO is used instead of a file copy so the
// snapshot includes pages still sitting in the WAL.
func (s *Store) Backup(ctx context.Context) error {
	if s.path == "" || s.path == ":memory:" {
		return nil
	}
	if err := rotateBackups(s.path); err != nil {
		return wrap("backup", err)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, GetBackupPathForStorage(s.path, 1)); err != nil {
		return wrap("backup", err)
	}
	return nil
}

// ListBackups returns the existing backups of a database file, most recent first.
func ListBackups(storagePath string) ([]BackupInfo, error) {
	var backups []BackupInfo
	for i := 1; i <= MaxBackupCount; i++ {
		path := GetBackupPathForStorage(storagePath, i)
		if _, err := os.Stat(path); err == nil {
			backups = append(backups, BackupInfo{Number: i, Path: path})
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return backups, nil
}

// RestoreBackup copies backup n over the database file. The database must
// not be open. Leftover WAL files are removed so they are not replayed onto
// the restored copy.
func RestoreBackup(storagePath string, n int) error {
	if n < 1 || n > MaxBackupCount {
		return fmt.Errorf("backup number must be between 1 and %d (got %d)", MaxBackupCount, n)
	}

	data, err := os.ReadFile(GetBackupPathForStorage(storagePath, n))
	if err != nil {
		return wrap("restore", err)
	}

	tmp := storagePath + ".restore"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return wrap("restore", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(storagePath + suffix); err != nil && !os.IsNotExist(err) {
			_ = os.Remove(tmp)
			return wrap("restore", err)
		}
	}
	if err := os.Rename(tmp, storagePath); err != nil {
		_ = os.Remove(tmp)
		return wrap("restore", err)
	}
	return nil
}
