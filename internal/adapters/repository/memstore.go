package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/folio/internal/domain/profile"
)

// MemoryStore is an in-process Store. Documents are deep-copied on the way in
// and out, so callers never share maps with the store.
type MemoryStore struct {
	mu      sync.Mutex
	doc     *profile.Document
	loadErr error
	saveErr error
	saves   int
}

// NewMemoryStore creates a store holding a copy of doc. A nil doc makes every
// Load fail with ErrIO until the first Save.
func NewMemoryStore(doc *profile.Document) *MemoryStore {
	return &MemoryStore{doc: doc.Clone()}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context) (*profile.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrIO)
	}
	return m.doc.Clone(), nil
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, doc *profile.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrIO)
	}
	m.doc = doc.Clone()
	m.saves++
	return nil
}

// FailLoad makes subsequent Loads return err. Pass nil to clear.
func (m *MemoryStore) FailLoad(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

// FailSave makes subsequent Saves return err. Pass nil to clear.
func (m *MemoryStore) FailSave(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// Saves reports how many Saves succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Snapshot returns a copy of the stored document, or nil.
func (m *MemoryStore) Snapshot() *profile.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone()
}
