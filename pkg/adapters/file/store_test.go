package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/advisor/pkg/adapters/file"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.StateStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	state := domain.NewState("s1")
	state.Brand = domain.BrandBritCare
	require.NoError(t, store.Save(ctx, "s1", state))
	state.CurrentPage = 4
	require.NoError(t, store.Save(ctx, "s1", state))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s1.json", entries[0].Name())

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.CurrentPage)
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, "", domain.NewState("")), file.ErrEmptySessionID)
	assert.Error(t, store.Save(ctx, "../escape", domain.NewState("x")))
	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, file.ErrEmptySessionID)
}

func TestFileStore_LoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := file.NewStore(dir).Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	sessions, err := file.NewStore(filepath.Join(t.TempDir(), "nope")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
