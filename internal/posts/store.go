package posts

import (
	"errors"
	"fmt"
)

var errEmptyStore = errors.New("post store requires at least one post")

// Store is the fixed set of posts served for the lifetime of the process.
// It has no mutation path, so a single instance is shared by every request.
type Store struct {
	posts []Post
}

func SeedPosts() []Post {
	return []Post{
		{ID: 0, Title: "My first post", Content: "This is my first post"},
		{ID: 1, Title: "My second post", Content: "This is my second post"},
		{ID: 2, Title: "My third post", Content: "This is my third post"},
	}
}

func NewStore(seed []Post) (*Store, error) {
	if len(seed) == 0 {
		return nil, errEmptyStore
	}

	seen := make(map[uint64]struct{}, len(seed))
	items := make([]Post, 0, len(seed))
	for _, post := range seed {
		if _, ok := seen[post.ID]; ok {
			return nil, fmt.Errorf("duplicate post id %d", post.ID)
		}
		seen[post.ID] = struct{}{}
		items = append(items, post)
	}

	return &Store{posts: items}, nil
}

func (s *Store) All() []Post {
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *Store) Find(id uint64) (Post, bool) {
	for _, post := range s.posts {
		if post.ID == id {
			return post, true
		}
	}

	return Post{}, false
}
