package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"ssrmodes/internal/posts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--delay", "0s"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPostsList(t *testing.T) {
	out, err := execute(t, "posts", "list")
	require.NoError(t, err)

	var items []posts.PostMetadata
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 3)
	assert.Equal(t, posts.PostMetadata{ID: 2, Title: "My third post"}, items[2])
}

func TestPostsGet(t *testing.T) {
	out, err := execute(t, "posts", "get", "1")
	require.NoError(t, err)

	var post posts.Post
	require.NoError(t, json.Unmarshal([]byte(out), &post))
	assert.Equal(t, "This is my second post", post.Content)
}

func TestPostsGetMissingPrintsNull(t *testing.T) {
	out, err := execute(t, "posts", "get", "999")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestPostsGetRejectsInvalidID(t *testing.T) {
	_, err := execute(t, "posts", "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid post ID.")
}
