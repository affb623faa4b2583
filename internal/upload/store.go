package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store writes uploaded structure files to uniquely named temporary files
type Store struct {
	dir string
}

// NewStore creates an upload store rooted at dir. An empty dir uses the
// system temporary directory.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory temporary files are written to
func (s *Store) Dir() string {
	return s.dir
}

// Save copies r into a new file and returns its path and size. If the copy
// fails after the file was created the path is still returned so the caller
// can remove it.
func (s *Store) Save(r io.Reader) (string, int64, error) {
	path := filepath.Join(s.dir, uuid.New().String()+".cif")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return path, n, fmt.Errorf("failed to write temporary file: %w", err)
	}

	return path, n, nil
}

// Remove deletes a file written by Save. A file that is already gone is not
// an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
