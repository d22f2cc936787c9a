package posts

import (
	"context"
	"time"
)

const DefaultDelay = time.Second

// Service exposes the store through the two data endpoints. Every call
// waits for the configured delay first to stand in for a network or
// database round trip.
type Service struct {
	store *Store
	delay time.Duration
}

func NewService(store *Store, delay time.Duration) *Service {
	if delay < 0 {
		delay = 0
	}

	return &Service{
		store: store,
		delay: delay,
	}
}

func (s *Service) ListPostMetadata(ctx context.Context) ([]PostMetadata, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	items := s.store.All()
	out := make([]PostMetadata, 0, len(items))
	for _, post := range items {
		out = append(out, post.Metadata())
	}

	return out, nil
}

// GetPost returns nil without an error when no post has the given id.
func (s *Service) GetPost(ctx context.Context, id uint64) (*Post, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	post, ok := s.store.Find(id)
	if !ok {
		return nil, nil
	}

	return &post, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
