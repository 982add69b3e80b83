package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio/adapters/persistence"
	"github.com/khoahotran/portfolio/internal/application/service"
	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/internal/domain/user"
	"github.com/khoahotran/portfolio/pkg/auth"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const testSeed = `{
  "projects": [
    {"title": "Portfolio", "description": "This site"},
    {"title": "CLI", "description": "A tool"}
  ],
  "skills": [{"name": "Go"}],
  "personalInfo": {"name": "Khoa"}
}`

func memoryOpener(store content.Store) storeOpener {
	return func(context.Context, config.Config, logger.Logger) (content.Store, func(), error) {
		return store, func() {}, nil
	}
}

// rejectingStore fails every insert into one collection.
type rejectingStore struct {
	*persistence.MemoryStore
	collection string
}

func (s rejectingStore) InsertDocument(ctx context.Context, collection string, r content.Record) (content.Document, error) {
	if collection == s.collection {
		return content.Document{}, errors.New("write quota exceeded")
	}
	return s.MemoryStore.InsertDocument(ctx, collection, r)
}

type bufferStorage struct {
	publicID string
	body     []byte
}

func (b *bufferStorage) Upload(_ context.Context, file io.Reader, _ string, publicID string) (string, error) {
	b.publicID = publicID
	b.body, _ = io.ReadAll(file)
	return "https://res.example.com/" + publicID, nil
}

func (b *bufferStorage) Delete(context.Context, string) error { return nil }

func newTestApp(store content.Store) *app {
	return &app{
		logger:    logger.NewNopLogger(),
		openStore: memoryOpener(store),
		openArchive: func(config.Config, logger.Logger) (service.ArchiveStorage, error) {
			return nil, errors.New("no archive in tests")
		},
	}
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config-dir", t.TempDir()))
	err := a.execute(context.Background(), root)
	return out.String(), err
}

// syncCounter counts flushes of the wrapped logger.
type syncCounter struct {
	logger.Logger
	syncs int
}

func (s *syncCounter) Sync() error {
	s.syncs++
	return nil
}

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o600))
	return path
}

func TestUploadCmd_AppendsThenClears(t *testing.T) {
	store := persistence.NewMemoryStore()
	seedPath := writeSeed(t)

	out, err := execute(t, newTestApp(store), "upload", "--seed", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "📦 projects: 2/2 uploaded, 0 failed")
	assert.Contains(t, out, "✅ personalInfo (settings/personalInfo)")
	assert.Contains(t, out, "🎉 Done: 4 uploaded, 0 failed")

	_, err = execute(t, newTestApp(store), "upload", "--seed", seedPath)
	require.NoError(t, err)
	assert.Equal(t, 4, store.Count(content.CollectionProjects))
	assert.Equal(t, 1, store.Count(content.CollectionSettings))

	out, err = execute(t, newTestApp(store), "upload", "--seed", seedPath, "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "🗑️ Cleared 4 existing documents from projects")
	assert.Equal(t, 2, store.Count(content.CollectionProjects))
}

func TestUploadCmd_DryRunLeavesStoreUntouched(t *testing.T) {
	store := persistence.NewMemoryStore()

	out, err := execute(t, newTestApp(store), "upload", "--seed", writeSeed(t), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "🎉 Done")
	assert.Zero(t, store.Count(content.CollectionProjects))
}

func TestUploadCmd_FailuresExitNonZero(t *testing.T) {
	store := rejectingStore{MemoryStore: persistence.NewMemoryStore(), collection: content.CollectionSkills}

	out, err := execute(t, newTestApp(store), "upload", "--seed", writeSeed(t))
	assert.ErrorIs(t, err, errUploadFailures)
	assert.Contains(t, out, "⚠️ skills: 0/1 uploaded, 1 failed")
	assert.Contains(t, out, "write quota exceeded")
	assert.Equal(t, 2, store.Count(content.CollectionProjects))
}

func TestUploadCmd_FailedRunStillTearsDown(t *testing.T) {
	store := rejectingStore{MemoryStore: persistence.NewMemoryStore(), collection: content.CollectionSkills}
	log := &syncCounter{Logger: logger.NewNopLogger()}
	a := newTestApp(store)
	a.logger = log

	_, err := execute(t, a, "upload", "--seed", writeSeed(t))
	require.ErrorIs(t, err, errUploadFailures)
	assert.Equal(t, 1, log.syncs)
	assert.Nil(t, a.shutdown)
}

func TestUploadCollectionCmd(t *testing.T) {
	store := persistence.NewMemoryStore()

	out, err := execute(t, newTestApp(store), "upload", "collection", content.CollectionSkills, "--seed", writeSeed(t))
	require.NoError(t, err)
	assert.Contains(t, out, "skills: 1/1 uploaded")
	assert.Zero(t, store.Count(content.CollectionProjects))

	_, err = execute(t, newTestApp(store), "upload", "collection", "blog", "--seed", writeSeed(t))
	assert.Error(t, err)
}

func TestUploadCmd_ProductionGuard(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	store := persistence.NewMemoryStore()
	seedPath := writeSeed(t)

	_, err := execute(t, newTestApp(store), "upload", "--seed", seedPath, "--clear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Zero(t, store.Count(content.CollectionProjects))

	_, err = execute(t, newTestApp(store), "upload", "--seed", seedPath, "--clear", "--force")
	assert.NoError(t, err)
}

func TestOwnerCmd(t *testing.T) {
	store := persistence.NewMemoryStore()

	out, err := execute(t, newTestApp(store), "owner", "--email", "owner@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "owner@example.com")

	u, err := persistence.NewDocumentUserRepo(store).FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("pw", u.PasswordHash))

	t.Setenv("OWNER_EMAIL", "")
	t.Setenv("OWNER_PASSWORD", "")
	_, err = execute(t, newTestApp(persistence.NewMemoryStore()), "owner")
	assert.Error(t, err)
}

func TestOwnerCmd_FromEnv(t *testing.T) {
	t.Setenv("OWNER_EMAIL", "env@example.com")
	t.Setenv("OWNER_PASSWORD", "from-env")
	store := persistence.NewMemoryStore()

	_, err := execute(t, newTestApp(store), "owner")
	require.NoError(t, err)

	_, err = persistence.NewDocumentUserRepo(store).FindByEmail(context.Background(), "env@example.com")
	assert.NotErrorIs(t, err, user.ErrUserNotFound)
}

func TestBackupCmd(t *testing.T) {
	store := persistence.NewMemoryStore()
	_, err := store.InsertDocument(context.Background(), content.CollectionSkills, content.Record{"name": "Go"})
	require.NoError(t, err)

	storage := &bufferStorage{}
	a := newTestApp(store)
	a.openArchive = func(config.Config, logger.Logger) (service.ArchiveStorage, error) { return storage, nil }

	out, err := execute(t, a, "backup")
	require.NoError(t, err)
	assert.Contains(t, out, "Backed up 1 documents")
	assert.True(t, strings.HasPrefix(storage.publicID, "backups/content/backup-"))
	assert.Contains(t, string(storage.body), `"name": "Go"`)

	_, err = execute(t, newTestApp(store), "backup")
	assert.Error(t, err)
}

func TestHashPasswordCmd(t *testing.T) {
	root := newRootCmd(newTestApp(persistence.NewMemoryStore()))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("from-stdin\n"))
	root.SetArgs([]string{"hash-password"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.True(t, auth.CheckPasswordHash("from-stdin", strings.TrimSpace(out.String())))
}
