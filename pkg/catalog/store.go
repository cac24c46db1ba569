package catalog

import (
	"errors"
	"log/slog"
	"sync/atomic"
)

// Store publishes the current catalog snapshot. Readers call Current and
// keep using the returned value for as long as they like; Reload swaps in
// a freshly loaded catalog without touching the old one.
type Store struct {
	current atomic.Pointer[Catalog]
	path    string
	logger  *slog.Logger
}

// NewStore wraps an already loaded catalog. path may be empty, in which case
// Reload is unsupported.
func NewStore(c *Catalog, path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	s.current.Store(c)
	return s
}

// OpenStore loads path and wraps the result in a Store.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	c, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewStore(c, path, logger), nil
}

// Current returns the published snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Path returns the file the store reloads from.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the source file. On failure the previous snapshot stays
// published and the error is returned. It reports whether the revision changed.
func (s *Store) Reload() (bool, error) {
	if s.path == "" {
		return false, errors.New("store has no source path")
	}

	next, err := LoadFromFile(s.path)
	if err != nil {
		s.logger.Error("catalog reload failed, keeping previous snapshot",
			"path", s.path,
			"revision", s.Current().Revision(),
			"error", err)
		return false, err
	}

	prev := s.current.Swap(next)
	if prev != nil && prev.Revision() == next.Revision() {
		return false, nil
	}

	report := next.Validate()
	s.logger.Info("catalog reloaded",
		"path", s.path,
		"revision", next.Revision(),
		"groups", next.Len(),
		"validation_errors", len(report.Errors()),
		"validation_warnings", len(report.Warnings()))
	return true, nil
}
