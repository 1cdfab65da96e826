package http

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
)

// DocumentStore keeps the encoded documents of the latest run in memory.
// It implements pipeline.DocumentLoader and DatasetLookup.
type DocumentStore struct {
	mu          sync.RWMutex
	docs        map[string][]byte
	generatedAt time.Time
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

// LoadDocuments replaces the stored set with the given run's documents.
func (s *DocumentStore) LoadDocuments(_ context.Context, docs domain.Documents) error {
	encoded := make(map[string][]byte)
	for _, e := range docs.Entries() {
		data, err := json.Marshal(e.Body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Name, err)
		}
		encoded[e.Name] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = encoded
	s.generatedAt = docs.GeneratedAt
	return nil
}

// Dataset returns the encoded document with the given name.
func (s *DocumentStore) Dataset(name string) ([]byte, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[name]
	return data, s.generatedAt, ok
}
