// internal/adapters/out/localstate/file_storage.go
package localstate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrEmptyDir = errors.New("localstate: state dir is empty")

// FileStorage keeps one file per key under Dir (localStorage on disk).
//   - key "persist:root" -> <Dir>/persist_root.json
//   - writes go to a temp file and are renamed into place
type FileStorage struct {
	dir string

	mu        sync.Mutex
	lastWrite map[string][]byte
}

// NewFileStorage creates dir if missing.
func NewFileStorage(dir string) (*FileStorage, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, ErrEmptyDir
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("localstate: mkdir %s: %w", dir, err)
	}
	return &FileStorage{dir: dir, lastWrite: map[string][]byte{}}, nil
}

func (s *FileStorage) Dir() string { return s.dir }

// Path is the file backing key.
func (s *FileStorage) Path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

func (s *FileStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("localstate: read %s: %w", key, err)
	}
	return b, true, nil
}

func (s *FileStorage) Set(_ context.Context, key string, value []byte) error {
	path := s.Path(key)

	tmp, err := os.CreateTemp(s.dir, "."+fileName(key)+".*")
	if err != nil {
		return fmt.Errorf("localstate: temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("localstate: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("localstate: close %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("localstate: rename %s: %w", key, err)
	}
	s.lastWrite[key] = append([]byte(nil), value...)
	return nil
}

// ownWrite reports whether content equals what this process last wrote for key.
func (s *FileStorage) ownWrite(key string, content []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastWrite[key]
	return ok && bytes.Equal(last, content)
}

func fileName(key string) string {
	r := strings.NewReplacer(":", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(strings.TrimSpace(key)) + ".json"
}
