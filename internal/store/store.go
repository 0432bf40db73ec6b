package store

// Cosmetic snapshot persistence under a fixed storage key

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tturner/nettrainer/internal/logging"
	"github.com/tturner/nettrainer/internal/report"
	"github.com/tturner/nettrainer/internal/session"
)

// Key names the snapshot file inside the data directory.
const Key = "windowsSimState"

// Store keeps the cosmetic session snapshot in a data directory.
type Store struct {
	dir    string
	logger *logging.Logger
}

// New returns a store rooted at dir.
func New(dir string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{dir: dir, logger: logger}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, Key+".json")
}

// Save writes the snapshot, replacing any previous one.
func (s *Store) Save(c session.Cosmetic) error {
	tmp := s.Path() + ".tmp"
	if err := report.WriteJSONFile(tmp, c); err != nil {
		return fmt.Errorf("save %s: %w", Key, err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save %s: %w", Key, err)
	}
	return nil
}

// Load reads the snapshot. A missing, unreadable or corrupt file is
// logged and reported as no saved state.
func (s *Store) Load() (session.Cosmetic, bool) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed to read %s: %v", s.Path(), err)
		}
		return session.Cosmetic{}, false
	}
	var c session.Cosmetic
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Error("Failed to parse %s: %v", s.Path(), err)
		return session.Cosmetic{}, false
	}
	s.logger.Verbose("Restored %s (saved %s)", Key, report.FormatTimestamp(c.SavedAt))
	return c, true
}

// Clear removes the snapshot.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear %s: %w", Key, err)
	}
	return nil
}
