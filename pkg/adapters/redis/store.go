// Package redis implements ports.DocumentStore and a distributed lock on
// top of Redis, for deployments where several workers share case documents.
package redis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/avelar0/kinmap/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "kinmap:doc:"

// Store implements ports.DocumentStore using Redis strings plus a sorted-set
// index of document ids.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides the key prefix. The index lives at prefix+"index".
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTTL sets an expiry on saved documents. Zero means documents never
// expire.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// NewFromClient creates a Store reusing an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New creates a Store with its own client for the given address.
func New(addr string, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

func (s *Store) key(docID string) string { return s.prefix + docID }

func (s *Store) indexKey() string { return s.prefix + "index" }

// Save persists the serialized document and records it in the index. Both
// writes go out in one pipeline.
func (s *Store) Save(ctx context.Context, docID string, doc *domain.Document) error {
	data, err := doc.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	// Index score is the expiry instant so List can expire entries lazily.
	score := math.Inf(1)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(docID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: docID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save failed: %w", err)
	}
	return nil
}

// Load retrieves and parses a document.
func (s *Store) Load(ctx context.Context, docID string) (*domain.Document, error) {
	data, err := s.client.Get(ctx, s.key(docID)).Bytes()
	if err == backend.Nil {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis load failed: %w", err)
	}

	doc, err := domain.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored document: %w", err)
	}
	return doc, nil
}

// Delete removes the document and its index entry.
func (s *Store) Delete(ctx context.Context, docID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(docID))
	pipe.ZRem(ctx, s.indexKey(), docID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// List returns the known document ids, dropping index entries whose backing
// keys have expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("redis index cleanup failed: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list failed: %w", err)
	}
	return ids, nil
}
