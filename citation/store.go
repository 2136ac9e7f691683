package citation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hupe1980/agentcrew/core"
)

// FileReferenceStore keeps the reference mapping in a JSON file.
type FileReferenceStore struct {
	path string
}

// NewFileReferenceStore creates a store backed by path
// (e.g. "docs/_references.json").
func NewFileReferenceStore(path string) *FileReferenceStore {
	return &FileReferenceStore{path: path}
}

// Path returns the backing file path.
func (s *FileReferenceStore) Path() string { return s.path }

// Load reads the whole mapping. A missing file yields an empty mapping.
func (s *FileReferenceStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	refs := map[string]string{}
	if len(data) == 0 {
		return refs, nil
	}
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return refs, nil
}

// Save writes the whole mapping, creating the parent directory if needed.
func (s *FileReferenceStore) Save(refs map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644) //nolint:gosec // references are not secret
}

var _ core.ReferenceStore = (*FileReferenceStore)(nil)
