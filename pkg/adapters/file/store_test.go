package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/avelar0/kinmap/pkg/adapters/file"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunDocumentStoreContract(t, store)
}

func TestFileStore_DefaultPath(t *testing.T) {
	store := file.New("")
	assert.Equal(t, filepath.Join(".kinmap", "documents"), store.BasePath)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	doc := domain.NewDocument()
	doc.People = append(doc.People, domain.Person{ID: "p_a", Name: "Ana"})
	require.NoError(t, store.Save(context.Background(), "case-1", doc))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "case-1.json", entries[0].Name())
}

func TestFileStore_EmptyID(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", domain.NewDocument()))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, ""))
}
