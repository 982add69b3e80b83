package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

func TestMemoryStore_InsertListDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a, err := s.InsertDocument(ctx, "projects", content.Record{"title": "A"})
	require.NoError(t, err)
	_, err = s.InsertDocument(ctx, "projects", content.Record{"title": "B"})
	require.NoError(t, err)

	docs, err := s.ListDocuments(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "A", docs[0].Data["title"])
	assert.Equal(t, "B", docs[1].Data["title"])

	require.NoError(t, s.DeleteDocument(ctx, a))
	assert.Equal(t, 1, s.Count("projects"))

	err = s.DeleteDocument(ctx, a)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMemoryStore_PutNamedDocumentUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.PutNamedDocument(ctx, content.PathPersonalInfo, content.Record{"name": "v1"}))
	require.NoError(t, s.PutNamedDocument(ctx, content.PathPersonalInfo, content.Record{"name": "v2"}))

	doc, err := s.GetDocument(ctx, content.CollectionSettings, "personalInfo")
	require.NoError(t, err)
	assert.Equal(t, "v2", doc.Data["name"])
	assert.Equal(t, 1, s.Count(content.CollectionSettings))

	err = s.PutNamedDocument(ctx, "no-slash", content.Record{})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := content.Record{"title": "A"}

	doc, err := s.InsertDocument(ctx, "projects", in)
	require.NoError(t, err)
	in["title"] = "mutated"

	got, err := s.GetDocument(ctx, "projects", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Data["title"])
}

func TestNewStore_Memory(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = config.DriverMemory

	store, closeFn, err := NewStore(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &MemoryStore{}, store)

	cfg.Store.Driver = "sqlite"
	_, closeFn, err = NewStore(context.Background(), cfg, logger.NewNopLogger())
	assert.Error(t, err)
	closeFn()
}
