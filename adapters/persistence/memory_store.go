package persistence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

// MemoryStore keeps documents in process. It backs --dry-run and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]content.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]content.Document)}
}

func (s *MemoryStore) ListDocuments(_ context.Context, collection string) ([]content.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	out := make([]content.Document, len(docs))
	for i, d := range docs {
		out[i] = content.Document{Collection: d.Collection, ID: d.ID, Data: d.Data.Clone()}
	}
	return out, nil
}

func (s *MemoryStore) GetDocument(_ context.Context, collection, id string) (content.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(collection, id); i >= 0 {
		d := s.collections[collection][i]
		return content.Document{Collection: d.Collection, ID: d.ID, Data: d.Data.Clone()}, nil
	}
	return content.Document{}, apperror.NewNotFound("document", collection+"/"+id)
}

func (s *MemoryStore) DeleteDocument(_ context.Context, doc content.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(doc.Collection, doc.ID)
	if i < 0 {
		return apperror.NewNotFound("document", doc.Path())
	}
	docs := s.collections[doc.Collection]
	s.collections[doc.Collection] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

func (s *MemoryStore) InsertDocument(_ context.Context, collection string, record content.Record) (content.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := content.Document{Collection: collection, ID: uuid.NewString(), Data: record.Clone()}
	s.collections[collection] = append(s.collections[collection], doc)
	return doc, nil
}

func (s *MemoryStore) PutNamedDocument(_ context.Context, path string, record content.Record) error {
	collection, id, err := content.SplitPath(path)
	if err != nil {
		return apperror.NewInvalidInput(err.Error(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := content.Document{Collection: collection, ID: id, Data: record.Clone()}
	if i := s.indexOf(collection, id); i >= 0 {
		s.collections[collection][i] = doc
		return nil
	}
	s.collections[collection] = append(s.collections[collection], doc)
	return nil
}

// Count is a test helper.
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *MemoryStore) indexOf(collection, id string) int {
	for i, d := range s.collections[collection] {
		if d.ID == id {
			return i
		}
	}
	return -1
}
