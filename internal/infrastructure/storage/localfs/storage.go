package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage keeps files in one flat directory. Keys are treated as base
// names; anything resembling a path is flattened so a crafted key can
// never escape the directory.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) resolve(key string) string {
	return filepath.Join(s.basePath, filepath.Base(key))
}

func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	f, err := os.Create(s.resolve(key))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Storage) SaveBytes(_ context.Context, key string, data []byte) (int, error) {
	if err := os.WriteFile(s.resolve(key), data, 0o644); err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return len(data), nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.resolve(key))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Remove accepts either a bare key or a full path previously returned
// by Path.
func (s *Storage) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.resolve(key)); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Glob returns the base names of stored files matching the pattern.
func (s *Storage) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, filepath.Base(pattern)))
	if err != nil {
		return nil, fmt.Errorf("glob files: %w", err)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.Base(m)
	}
	return names, nil
}

// Path returns the on-disk location for a key, for callers that need
// to hand the file to an external tool or persist a reference.
func (s *Storage) Path(key string) string {
	return s.resolve(key)
}
