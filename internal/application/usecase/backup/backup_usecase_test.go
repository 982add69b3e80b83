package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/adapters/persistence"
	"github.com/khoahotran/portfolio/internal/application/usecase/seed"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type fakeStorage struct {
	folder   string
	publicID string
	body     []byte
	err      error
	deleted  []string
}

func (f *fakeStorage) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.folder, f.publicID = folder, publicID
	f.body, _ = io.ReadAll(file)
	return "https://res.example.com/" + publicID, nil
}

func (f *fakeStorage) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

// readOnlySettings refuses named writes, as a replica would.
type readOnlySettings struct {
	*persistence.MemoryStore
}

func (readOnlySettings) PutNamedDocument(context.Context, string, content.Record) error {
	return errors.New("read-only replica")
}

func TestBackupUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	_, err := store.InsertDocument(ctx, content.CollectionProjects, content.Record{"title": "Site"})
	require.NoError(t, err)
	_, err = store.InsertDocument(ctx, content.CollectionSkills, content.Record{"name": "Go"})
	require.NoError(t, err)
	require.NoError(t, store.PutNamedDocument(ctx, content.PathPersonalInfo, content.Record{"name": "Khoa"}))

	storage := &fakeStorage{}
	uc := NewBackupUseCase(store, storage, logger.NewNopLogger())
	uc.now = func() time.Time { return time.Date(2025, 5, 4, 3, 2, 1, 0, time.UTC) }

	out, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Documents)
	assert.Equal(t, "backups/content/backup-2025-05-04_03-02-01.json", out.PublicID)
	assert.Equal(t, backupFolder, storage.folder)

	// The snapshot reads back as a seed file.
	s, err := seed.ParseSeedJSON(storage.body)
	require.NoError(t, err)
	require.Len(t, s.Records(content.CollectionProjects), 1)
	assert.Equal(t, "Site", s.Records(content.CollectionProjects)[0]["title"])
	assert.Equal(t, "Khoa", s.PersonalInfo["name"])
	assert.Nil(t, s.Analytics)
	assert.Empty(t, s.Ignored)
	_, hasID := s.Records(content.CollectionProjects)[0][content.FieldID]
	assert.False(t, hasID, "store ids are not uploaded as data")
	assert.True(t, bytes.Contains(storage.body, []byte(`"id"`)), "snapshot keeps store ids")

	doc, err := store.GetDocument(ctx, content.CollectionSettings, "lastBackup")
	require.NoError(t, err)
	assert.Equal(t, out.PublicID, doc.Data["publicId"])
	assert.Equal(t, out.URL, doc.Data["url"])
	assert.Empty(t, storage.deleted)
}

func TestBackupUseCase_UnrecordedSnapshotIsRemoved(t *testing.T) {
	store := readOnlySettings{MemoryStore: persistence.NewMemoryStore()}
	storage := &fakeStorage{}
	uc := NewBackupUseCase(store, storage, logger.NewNopLogger())

	out, err := uc.Execute(context.Background())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
	require.NotEmpty(t, storage.publicID)
	assert.Equal(t, []string{storage.publicID}, storage.deleted)
}

func TestBackupUseCase_StorageFailure(t *testing.T) {
	storage := &fakeStorage{err: errors.New("quota")}
	uc := NewBackupUseCase(persistence.NewMemoryStore(), storage, logger.NewNopLogger())

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
	assert.Empty(t, storage.deleted)
}

func TestSnapshot_MarshalJSON_SkipsMissingSingletons(t *testing.T) {
	snap := &Snapshot{Collections: map[string][]content.Record{"skills": {}}}
	body, err := snap.MarshalJSON()
	require.NoError(t, err)
	assert.False(t, bytes.Contains(body, []byte("personalInfo")))
	assert.True(t, bytes.Contains(body, []byte(`"skills":[]`)))
}
