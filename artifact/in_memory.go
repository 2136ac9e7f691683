package artifact

import (
	"sort"
	"sync"

	"github.com/hupe1980/agentcrew/core"
)

// InMemoryStore is a trivial in‑process DocumentStore useful for tests,
// examples and dry runs. Data is copied on save and retrieval so callers
// cannot mutate stored buffers.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewInMemoryStore returns an empty in‑memory document store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string][]byte)}
}

// Save stores (or overwrites) the document bytes under name.
func (a *InMemoryStore) Save(name string, data []byte) error {
	if name == "" {
		return ErrInvalidName
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	a.docs[name] = cp
	return nil
}

// Get returns a copy of the stored document or ErrNotFound.
func (a *InMemoryStore) Get(name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	data, ok := a.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the stored names in lexical order.
func (a *InMemoryStore) List() ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.docs))
	for name := range a.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the document if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.docs[name]; !ok {
		return ErrNotFound
	}
	delete(a.docs, name)
	return nil
}

var _ core.DocumentStore = (*InMemoryStore)(nil)
