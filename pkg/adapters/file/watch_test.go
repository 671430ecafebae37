package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aretw0/advisor/pkg/adapters/file"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoader_WatchRequiresDirectory(t *testing.T) {
	_, err := file.NewLoader(fstest.MapFS{}).Watch(context.Background())
	assert.ErrorIs(t, err, file.ErrNotWatchable)
}

func TestLoader_WatchReloadsBrand(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	navPath := filepath.Join(dir, "nutram_navigation.json")
	require.NoError(t, os.WriteFile(navPath, []byte(nutramNavJSON), 0o644))

	loader := file.NewDirLoader(dir)
	g, err := loader.LoadGraph(domain.BrandNutram)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	ctx, cancel := context.WithCancel(context.Background())
	events, err := loader.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(navPath, []byte(`[{"page_number": 1, "question": "q"}]`), 0o644))

	select {
	case brand := <-events:
		assert.Equal(t, "nutram", brand)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	g, err = loader.LoadGraph(domain.BrandNutram)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())

	cancel()
	for range events {
	}
}
