package middleware

import (
	"context"
	"regexp"

	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
)

type piiMiddleware struct {
	next     ports.DocumentStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of person payload
// and document metadata keys matching the patterns before they reach the
// store. Clinical notes fields are a typical target.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, docID string, doc *domain.Document) error {
	// Clone first so the in-memory document the editor works on keeps its
	// plaintext values.
	cloned := doc.Clone()

	for i := range cloned.People {
		maskMap(cloned.People[i].Payload, m.patterns)
	}
	maskMap(cloned.Metadata, m.patterns)

	return m.next.Save(ctx, docID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, docID string) (*domain.Document, error) {
	return m.next.Load(ctx, docID)
}

func (m *piiMiddleware) Delete(ctx context.Context, docID string) error {
	return m.next.Delete(ctx, docID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		// Recurse if map
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
