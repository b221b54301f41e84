// Package storage persists uploaded document files on local disk. Stored
// names are generated server-side so client-supplied names never become
// storage keys.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = fmt.Errorf("invalid stored name")

// LocalStore writes files under a single base directory.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

// NewStoredName produces a unique on-disk name for an uploaded file:
// a random prefix plus the sanitized original name. Concurrent uploads of
// the same file never collide.
func NewStoredName(original string) string {
	name := filepath.Base(original)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return uuid.New().String() + "_" + name
}

// Save writes the reader to disk under storedName and returns the number of
// bytes written. The base directory is created on demand.
func (s *LocalStore) Save(storedName string, r io.Reader) (int64, error) {
	path, err := s.path(storedName)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

// Exists reports whether the stored file is present on disk.
func (s *LocalStore) Exists(storedName string) bool {
	path, err := s.path(storedName)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Remove deletes the stored file. A missing file is not an error; deletion
// is idempotent from the caller's perspective.
func (s *LocalStore) Remove(storedName string) error {
	path, err := s.path(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// AbsolutePath resolves the stored name to an absolute filesystem path.
func (s *LocalStore) AbsolutePath(storedName string) (string, error) {
	path, err := s.path(storedName)
	if err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

func (s *LocalStore) path(storedName string) (string, error) {
	clean := filepath.Clean(storedName)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) || strings.ContainsRune(clean, filepath.Separator) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.baseDir, clean), nil
}
