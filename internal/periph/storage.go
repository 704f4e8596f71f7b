package periph

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DirStorage is a directory-backed Storage standing in for the badge's SD
// card mount on the host build.
type DirStorage struct {
	dir       string
	unmounted bool
}

// NewDirStorage verifies dir exists and returns a mounted DirStorage
func NewDirStorage(dir string) (*DirStorage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("storage mount %s unavailable: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("storage mount %s is not a directory", dir)
	}

	return &DirStorage{dir: dir}, nil
}

// Create opens name under the mount for writing
func (s *DirStorage) Create(name string) (io.WriteCloser, error) {
	if s.unmounted {
		return nil, fmt.Errorf("storage %s is unmounted", s.dir)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s on storage: %w", name, err)
	}

	return f, nil
}

// Unmount marks the mount released. Further Create calls fail.
func (s *DirStorage) Unmount() error {
	if s.unmounted {
		return fmt.Errorf("storage %s already unmounted", s.dir)
	}

	s.unmounted = true
	return nil
}

// Path returns the directory backing the mount
func (s *DirStorage) Path() string {
	return s.dir
}
