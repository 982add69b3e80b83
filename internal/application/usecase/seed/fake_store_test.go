package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/khoahotran/portfolio/internal/domain/content"
)

var errUnreachable = errors.New("store unreachable")

// fakeStore records every call in order and lets tests inject failures.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[string][]content.Document
	calls   []string
	nextID  int
	listErr error
	putErr  error

	failInsert func(collection string, r content.Record) error
	failDelete func(doc content.Document) error
	failPut    func(path string) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]content.Document)}
}

func (s *fakeStore) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *fakeStore) ListDocuments(_ context.Context, collection string) ([]content.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list:" + collection)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]content.Document(nil), s.docs[collection]...), nil
}

func (s *fakeStore) GetDocument(_ context.Context, collection, id string) (content.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs[collection] {
		if d.ID == id {
			return d, nil
		}
	}
	return content.Document{}, fmt.Errorf("%s/%s not found", collection, id)
}

func (s *fakeStore) DeleteDocument(_ context.Context, doc content.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("delete:" + doc.Collection)
	if s.failDelete != nil {
		if err := s.failDelete(doc); err != nil {
			return err
		}
	}
	docs := s.docs[doc.Collection]
	for i, d := range docs {
		if d.ID == doc.ID {
			s.docs[doc.Collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s not found", doc.Path())
}

func (s *fakeStore) InsertDocument(_ context.Context, collection string, r content.Record) (content.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("insert:" + collection)
	if s.failInsert != nil {
		if err := s.failInsert(collection, r); err != nil {
			return content.Document{}, err
		}
	}
	s.nextID++
	doc := content.Document{Collection: collection, ID: fmt.Sprintf("id-%d", s.nextID), Data: r}
	s.docs[collection] = append(s.docs[collection], doc)
	return doc, nil
}

func (s *fakeStore) PutNamedDocument(_ context.Context, path string, r content.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("put:" + path)
	if s.putErr != nil {
		return s.putErr
	}
	if s.failPut != nil {
		if err := s.failPut(path); err != nil {
			return err
		}
	}
	collection, id, err := content.SplitPath(path)
	if err != nil {
		return err
	}
	s.docs[collection] = []content.Document{{Collection: collection, ID: id, Data: r}}
	return nil
}

func (s *fakeStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs[collection])
}

func (s *fakeStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeStore) preload(collection string, n int) {
	for i := 0; i < n; i++ {
		_, _ = s.InsertDocument(context.Background(), collection, content.Record{"old": i})
	}
	s.calls = nil
}

// progressRecorder keeps every snapshot it was handed.
type progressRecorder struct {
	mu        sync.Mutex
	snapshots [][]content.UploadProgress
}

func (r *progressRecorder) fn(snapshot []content.UploadProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
}

// updatesFor returns the entry for collection from each snapshot where it changed.
func (r *progressRecorder) updatesFor(collection string) []content.UploadProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []content.UploadProgress
	var last *content.UploadProgress
	for _, snap := range r.snapshots {
		for _, p := range snap {
			if p.Collection != collection {
				continue
			}
			if last == nil || *last != p {
				p := p
				out = append(out, p)
				last = &p
			}
		}
	}
	return out
}
