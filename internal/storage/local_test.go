package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRetrieve(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	require.NoError(t, l.Store(ctx, "results/draft.json", []byte(`{"ok":true}`)))

	data, err := l.Retrieve(ctx, "results/draft.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ok":true}`), data)

	// Nested key landed under the root.
	_, err = os.Stat(filepath.Join(l.Root(), "results", "draft.json"))
	assert.NoError(t, err)
}

func TestLocalRetrieveMissing(t *testing.T) {
	l := NewLocal(t.TempDir())

	_, err := l.Retrieve(context.Background(), "nope.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalExists(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	found, err := l.Exists(ctx, "draft.pdf")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, l.Store(ctx, "draft.pdf", []byte("pdf bytes")))

	found, err = l.Exists(ctx, "draft.pdf")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLocalDelete(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	require.NoError(t, l.Store(ctx, "draft.pdf", []byte("pdf bytes")))
	require.NoError(t, l.Delete(ctx, "draft.pdf"))

	found, err := l.Exists(ctx, "draft.pdf")
	require.NoError(t, err)
	assert.False(t, found)

	assert.ErrorIs(t, l.Delete(ctx, "draft.pdf"), ErrNotFound)
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../outside.txt", "a/../../outside.txt", "/etc/passwd", ""} {
		err := l.Store(ctx, key, []byte("x"))
		assert.Error(t, err, "key %q should be rejected", key)
	}
}

func TestNewLocalDefaultRoot(t *testing.T) {
	assert.Equal(t, ".galley/storage", NewLocal("").Root())
}
