// Package discovery finds catalog source files under a directory tree.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Config holds include/exclude globs, matched against slash-separated paths
// relative to the root.
type Config struct {
	Include []string
	Exclude []string
}

// DefaultConfig matches JSON and YAML files anywhere below the root and
// skips dependency and VCS directories.
func DefaultConfig() Config {
	return Config{
		Include: []string{"**/*.json", "**/*.{yaml,yml}"},
		Exclude: []string{"**/node_modules/**", "**/.git/**", "**/_examples/**"},
	}
}

// Validate checks every pattern.
func (c Config) Validate() error {
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range c.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// Find walks root applying cfg and returns a sorted slice of absolute file
// paths. If root is a regular file it is returned as-is, without matching.
func Find(root string, cfg Config) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil
		}
		if path == absRoot && !d.IsDir() {
			files = append(files, path)
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		// A directory pattern like "**/node_modules/**" must also prune the
		// directory entry itself, so test it with a trailing child segment.
		for _, pattern := range cfg.Exclude {
			candidate := relPath
			if d.IsDir() {
				candidate += "/x"
			}
			if matched, _ := doublestar.Match(pattern, candidate); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(cfg.Include) > 0 && !matchAny(cfg.Include, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if m, _ := doublestar.Match(pattern, relPath); m {
			return true
		}
	}
	return false
}
