package posts

import "strconv"

type Post struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PostMetadata struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

func (p Post) Metadata() PostMetadata {
	return PostMetadata{
		ID:    p.ID,
		Title: p.Title,
	}
}

// ParseID reads a post id from a route or request value. Anything other
// than a base-10 non-negative integer is ErrInvalidID.
func ParseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &Error{Kind: KindInvalidID, Err: err}
	}
	return id, nil
}
