package middleware_test

import (
	"context"

	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
type MockStore struct {
	data map[string]*domain.Document
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Document),
	}
}

func (s *MockStore) Save(ctx context.Context, docID string, doc *domain.Document) error {
	s.data[docID] = doc
	return nil
}

func (s *MockStore) Load(ctx context.Context, docID string) (*domain.Document, error) {
	doc, ok := s.data[docID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (s *MockStore) Delete(ctx context.Context, docID string) error {
	delete(s.data, docID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.DocumentStore = (*MockStore)(nil)
