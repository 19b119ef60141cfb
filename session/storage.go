package session

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Storage is the durable key-value capability the session rides on.
type Storage interface {
	// Get returns the stored value, or ok=false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// FileStorage keeps one file per key under a directory, standing in for
// the device's secure storage.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "unable to create session folder %s", dir)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Get(key string) (string, bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(raw), true, nil
}

func (s *FileStorage) Set(key, value string) error {
	return os.WriteFile(filepath.Join(s.dir, key), []byte(value), 0600)
}

func (s *FileStorage) Remove(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
