// Package prefs persists client-side UI preferences (theme, widget layout,
// presence identity) as one JSON file per key under the dash state
// directory. Writes are atomic (temp file + rename). Concurrent dash
// processes share the same files last-writer-wins; there is no cross-process
// merge or conflict detection.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	dasherr "github.com/klondike-tools/dash/errors"
)

// Storage keys. Each maps to <dir>/<key>.json.
const (
	KeyTheme    = "theme"
	KeyLayout   = "layout"
	KeyIdentity = "identity"
)

// Storage reads and writes preference files in a single directory.
type Storage struct {
	dir string
}

// NewStorage creates a Storage rooted at dir, creating it if needed.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dasherr.Wrap(err, dasherr.ErrCodeStorageWrite, "create prefs directory")
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the directory backing this storage.
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns the file path backing a key.
func (s *Storage) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads a key into target. Returns false with a nil error when the
// key has never been written.
func (s *Storage) Load(key string, target interface{}) (bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, dasherr.StorageRead(key, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, dasherr.StorageRead(key, err)
	}
	return true, nil
}

// Save writes a key atomically via a temp file and rename.
func (s *Storage) Save(key string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return dasherr.StorageWrite(key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return dasherr.StorageWrite(key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return dasherr.StorageWrite(key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return dasherr.StorageWrite(key, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		os.Remove(tmpName)
		return dasherr.StorageWrite(key, err)
	}
	return nil
}
