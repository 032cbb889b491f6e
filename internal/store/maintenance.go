package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// tempFiles are scratch files components may leave behind. Cleanup removes
// them once they age past the configured cutoff.
var tempFiles = []string{
	"temp_analysis.json",
	"temp_commands.json",
	"backup_params.json",
}

// criticalFiles are the state files worth preserving across component
// restarts.
var criticalFiles = []string{
	FileFractalParams,
	FileFractalAnalysis,
}

// CleanupOldFiles removes temp files older than maxAge and returns how many
// were removed. Missing files are not an error.
func (s *Store) CleanupOldFiles(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var lastErr error

	for _, name := range tempFiles {
		path := s.path(name)
		info, err := os.Stat(path)
		if err != nil {
			continue // Absent, nothing to clean
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.log.Warn("Cleanup could not remove %s: %v", name, err)
			lastErr = err
			continue
		}
		removed++
		s.log.Info("Cleanup removed %s", name)
	}

	return removed, lastErr
}

// BackupCriticalState copies the critical state files into the backups
// directory with a timestamp suffix and returns how many were backed up.
// Missing source files are skipped.
func (s *Store) BackupCriticalState() (int, error) {
	backupDir := s.path(DirBackups)
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	backed := 0

	for _, name := range criticalFiles {
		data, err := os.ReadFile(s.path(name))
		if err != nil {
			continue // Component has not published yet
		}

		stem := strings.TrimSuffix(name, ".json")
		dest := filepath.Join(backupDir, fmt.Sprintf("%s_%s.json", stem, stamp))
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return backed, fmt.Errorf("failed to back up %s: %w", name, err)
		}
		backed++
		s.log.Debug("Backed up %s -> %s", name, dest)
	}

	return backed, nil
}
