package util

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadFile returns the contents of path, read through a read-only memory
// mapping. The returned slice is an owned copy and stays valid after the
// mapping is released. If mmap fails the file is read with os.ReadFile.
func ReadFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		return []byte{}, nil
	}

	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		slog.Default().Warn("mmap failed, using fallback",
			"file", path,
			"size", stat.Size(),
			"error", err)

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return data, nil
	}
	defer m.Unmap()

	data := make([]byte, len(m))
	copy(data, m)
	return data, nil
}
