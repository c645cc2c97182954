// Package file implements ports.DocumentStore on the local filesystem,
// one JSON file per document.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avelar0/kinmap/pkg/domain"
)

// Store persists documents as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".kinmap/documents".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".kinmap", "documents")
	}
	return &Store{BasePath: basePath}
}

// Save persists the document to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// to the destination.
func (s *Store) Save(ctx context.Context, docID string, doc *domain.Document) error {
	if docID == "" {
		return fmt.Errorf("docID cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure document directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, docID+".json")

	data, err := doc.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	// The temp file lives in the same directory so that the rename stays on
	// one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+docID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // Remove if still exists (not renamed)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists, so remove it first. The
	// delete+rename window beats a partially written file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing document file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to document: %w", err)
	}

	return nil
}

// Load retrieves a document from its JSON file.
func (s *Store) Load(ctx context.Context, docID string) (*domain.Document, error) {
	if docID == "" {
		return nil, fmt.Errorf("docID cannot be empty")
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, docID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	doc, err := domain.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document file: %w", err)
	}
	return doc, nil
}

// Delete removes the document file.
func (s *Store) Delete(ctx context.Context, docID string) error {
	if docID == "" {
		return fmt.Errorf("docID cannot be empty")
	}

	err := os.Remove(filepath.Join(s.BasePath, docID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document file: %w", err)
	}
	return nil
}

// List returns the stored document ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
