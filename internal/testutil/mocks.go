// Package testutil provides test doubles shared by package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/agentcrew/core"
	"github.com/stretchr/testify/mock"
)

// MockSearcher is a testify mock for core.Searcher.
type MockSearcher struct{ mock.Mock }

// Search implements core.Searcher.
func (m *MockSearcher) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	args := m.Called(ctx, query, limit)
	res, _ := args.Get(0).([]core.SearchResult)
	return res, args.Error(1)
}

// MockVCS is a testify mock for core.VersionControl.
type MockVCS struct{ mock.Mock }

// EnsureCleanState implements core.VersionControl.
func (m *MockVCS) EnsureCleanState(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// CommitAll implements core.VersionControl.
func (m *MockVCS) CommitAll(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

// RevertWorkingCopy implements core.VersionControl.
func (m *MockVCS) RevertWorkingCopy(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ChangedFiles implements core.VersionControl.
func (m *MockVCS) ChangedFiles(ctx context.Context, ext string) ([]string, error) {
	args := m.Called(ctx, ext)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

// MemReferenceStore is an in-memory core.ReferenceStore.
type MemReferenceStore struct {
	mu    sync.Mutex
	Refs  map[string]string
	Saves int
}

// Load implements core.ReferenceStore.
func (s *MemReferenceStore) Load() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.Refs))
	for k, v := range s.Refs {
		out[k] = v
	}
	return out, nil
}

// Save implements core.ReferenceStore.
func (s *MemReferenceStore) Save(refs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Refs = make(map[string]string, len(refs))
	for k, v := range refs {
		s.Refs[k] = v
	}
	s.Saves++
	return nil
}

var (
	_ core.Searcher       = (*MockSearcher)(nil)
	_ core.VersionControl = (*MockVCS)(nil)
	_ core.ReferenceStore = (*MemReferenceStore)(nil)
)
