package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/lattice/internal/errors"
)

// FileStore keeps snapshots as JSON files below a directory.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file that holds the snapshot called name.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name)+".json")
}

// Put implements Store. The file is replaced atomically.
func (s *FileStore) Put(_ context.Context, snap *Snapshot) error {
	if err := ValidateName(snap.Name); err != nil {
		return err
	}
	data, err := snap.Marshal()
	if err != nil {
		return errors.New("E303").Wrap(err)
	}

	path := s.Path(snap.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New("E303").Wrap(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return errors.New("E303").Wrap(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.New("E303").Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.New("E303").Wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.New("E303").Wrap(err)
	}
	return nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, name string) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New("E301").WithPath(name)
	}
	if err != nil {
		return nil, errors.New("E303").Wrap(err)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, errors.New("E303").WithPath(path).Wrap(err)
	}
	return snap, nil
}
