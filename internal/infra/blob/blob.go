package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Reader fetches small documents (FAQ lists, test questions) by key.
type Reader interface {
	Read(ctx context.Context, key string) ([]byte, error)
	// Location describes where key is read from, for logging.
	Location(key string) string
}

// LocalReader reads keys as paths relative to a base directory.
type LocalReader struct {
	base string
}

// NewLocalReader constructs a filesystem reader. An empty base means the
// working directory.
func NewLocalReader(base string) *LocalReader {
	return &LocalReader{base: base}
}

// Read implements Reader.
func (r *LocalReader) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// Path resolves key on disk.
func (r *LocalReader) Path(key string) string {
	if r.base == "" || filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(r.base, key)
}

// Location implements Reader.
func (r *LocalReader) Location(key string) string {
	return "file://" + r.Path(key)
}

func trimKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}
