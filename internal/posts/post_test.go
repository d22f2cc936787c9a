package posts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("2")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)

	id, err = ParseID("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), id)

	for _, raw := range []string{"", "abc", "-1", "1.5", "0x1", " 1", "1 ", "18446744073709551616"} {
		_, err := ParseID(raw)
		assert.True(t, errors.Is(err, ErrInvalidID), "raw %q", raw)
	}
}

func TestMetadataProjection(t *testing.T) {
	post := Post{ID: 7, Title: "Seven", Content: "body"}
	assert.Equal(t, PostMetadata{ID: 7, Title: "Seven"}, post.Metadata())
}
