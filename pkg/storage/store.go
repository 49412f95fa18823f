// Package storage persists home comparison scenarios and encodes them into
// shareable links.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/frilans-calc/pkg/constants"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"go.uber.org/zap"
)

// FileStore keeps the scenario list in a single JSON file under dir.
// Writers are not coordinated; the last save wins.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, logger: logger}
}

// Path is the file backing the store.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, constants.ScenarioStorageKey+".json")
}

// SaveScenarios replaces the stored scenario list.
func (s *FileStore) SaveScenarios(scenarios []home.Scenario) error {
	data, err := json.Marshal(scenarios)
	if err != nil {
		return fmt.Errorf("failed to encode scenarios: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, constants.ScenarioStorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write scenarios: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.Path(), err)
	}

	s.logger.Debug(fmt.Sprintf("saved %d scenarios", len(scenarios)),
		zap.String("op", "storage.SaveScenarios"),
		zap.String("path", s.Path()),
	)
	return nil
}

// LoadScenarios returns the stored scenario list. A missing or unreadable
// file yields nil; read and decode failures are logged.
func (s *FileStore) LoadScenarios() []home.Scenario {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error("failed to read stored scenarios",
				zap.String("op", "storage.LoadScenarios"),
				zap.String("path", s.Path()),
				zap.Error(err),
			)
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var scenarios []home.Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		s.logger.Error("failed to decode stored scenarios",
			zap.String("op", "storage.LoadScenarios"),
			zap.String("path", s.Path()),
			zap.Error(err),
		)
		return nil
	}
	return scenarios
}

// ClearScenarios removes the stored list. Clearing an empty store is not an error.
func (s *FileStore) ClearScenarios() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear scenarios: %w", err)
	}
	return nil
}
