package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-editor/pkg/models"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := &Session{
		ID:        "sess-1",
		State:     StateLoaded,
		Document:  &models.ResumeDocument{FullName: "Jane Doe"},
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, got.State)
	assert.Equal(t, "Jane Doe", got.Document.FullName)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreIsolatesDocuments(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := &Session{
		ID:       "sess-1",
		State:    StateLoaded,
		Document: &models.ResumeDocument{FullName: "Jane Doe"},
	}
	require.NoError(t, store.Put(ctx, sess))

	// mutating the caller's copy must not leak into the store
	sess.Document.FullName = "changed after put"

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Document.FullName)

	// mutating a retrieved copy must not leak either
	got.Document.FullName = "changed after get"

	again, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", again.Document.FullName)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ID: "sess-1"}))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "sess-1"), ErrNotFound)
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ID: "stale", UpdatedAt: time.Now().Add(-2 * time.Hour)}))
	require.NoError(t, store.Put(ctx, &Session{ID: "fresh", UpdatedAt: time.Now()}))

	require.NoError(t, store.Cleanup(ctx, time.Hour))

	_, err := store.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStoreList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ID: "a"}))
	require.NoError(t, store.Put(ctx, &Session{ID: "b"}))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
