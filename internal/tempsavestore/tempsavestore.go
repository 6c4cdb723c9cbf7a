// Package tempsavestore implements savestore.SaveStore against the
// host's temp directory, for save_undo-independent on-disk saves and
// for the undo-to-disk fallback gameplay sessions never actually use
// (save_undo/restore_undo stay in memory; this is for save/restore).
package tempsavestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store writes/reads Quetzal save files under a base directory,
// defaulting to os.TempDir.
type Store struct {
	Dir string
}

func New(dir string) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{Dir: dir}
}

func (s *Store) Write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) Read(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, path)
	}
	return os.ReadFile(path)
}

// Prompt has no terminal to ask, so it derives a deterministic name:
// suggestedName as-is for a save, or the most recent matching save for
// a restore. Run_zcode-undo-<pid>-<timestamp>.sav names an automatic
// undo-to-disk snapshot distinct from a player-named save.
func (s *Store) Prompt(forSave bool, suggestedName string) (string, error) {
	if suggestedName != "" {
		return suggestedName, nil
	}
	if forSave {
		return fmt.Sprintf("run_zcode-undo-%d-%s.sav", os.Getpid(), time.Now().UTC().Format("20060102T150405")), nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", err
	}
	var latest string
	var latestMod time.Time
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sav" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no save files found in %s", s.Dir)
	}
	return latest, nil
}
