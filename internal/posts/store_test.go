package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreRejectsInvalidSeed(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil)
	require.Error(t, err)

	_, err = NewStore([]Post{
		{ID: 4, Title: "a"},
		{ID: 4, Title: "b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate post id 4")
}

func TestStoreFindAndAll(t *testing.T) {
	t.Parallel()

	store, err := NewStore(SeedPosts())
	require.NoError(t, err)
	require.Len(t, store.All(), 3)

	post, ok := store.Find(1)
	require.True(t, ok)
	assert.Equal(t, "My second post", post.Title)
	assert.Equal(t, "This is my second post", post.Content)

	_, ok = store.Find(999)
	assert.False(t, ok)

	all := store.All()
	all[0].Title = "changed"
	first, _ := store.Find(0)
	assert.Equal(t, "My first post", first.Title, "All must return a copy")
}
