package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom-live/internal/models"
)

func TestDeckStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDeckStore(dir)
	require.NoError(t, err)

	snapshot := &models.DeckSnapshot{
		ClassID:      "class-1",
		CurrentIndex: 1,
		Pages: []*models.Page{
			{ID: "p1", ContentKind: models.ContentEmpty},
			{ID: "p2", ContentKind: models.ContentImage, ContentRef: "slide.png", Annotation: "data:image/png;base64,ink"},
		},
	}
	require.NoError(t, store.SaveDeck(snapshot))

	// A fresh store over the same directory sees the persisted deck.
	reloaded, err := NewDeckStore(dir)
	require.NoError(t, err)

	got, ok := reloaded.GetDeck("class-1")
	require.True(t, ok)
	assert.Equal(t, 1, got.CurrentIndex)
	require.Len(t, got.Pages, 2)
	assert.Equal(t, "slide.png", got.Pages[1].ContentRef)
	assert.Equal(t, "data:image/png;base64,ink", got.Pages[1].Annotation)
}

func TestDeckStoreMissingDeck(t *testing.T) {
	store, err := NewDeckStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.GetDeck("never-saved")
	assert.False(t, ok)
}

func TestDeckStoreToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "decks.json"), []byte("{not json"), 0644))

	store, err := NewDeckStore(dir)
	require.NoError(t, err, "a corrupt file must not block startup")

	_, ok := store.GetDeck("class-1")
	assert.False(t, ok)

	// And the store can still save over it.
	require.NoError(t, store.SaveDeck(&models.DeckSnapshot{
		ClassID: "class-1",
		Pages:   []*models.Page{{ID: "p1"}},
	}))
	_, ok = store.GetDeck("class-1")
	assert.True(t, ok)
}
