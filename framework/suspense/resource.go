package suspense

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"
)

// Resource is a value that is fetched once in the background and can be
// awaited any number of times by the views that read it.
type Resource[T interface{}] struct {
	done  chan struct{}
	value T
	err   error
}

// NewResource starts fetch immediately. The fetch is bound to ctx, so a
// cancelled request abandons it.
func NewResource[T interface{}](ctx context.Context, fetch func(ctx context.Context) (T, error)) *Resource[T] {
	resource := &Resource[T]{done: make(chan struct{})}

	go func() {
		defer close(resource.done)

		var catcher panics.Catcher
		catcher.Try(func() {
			resource.value, resource.err = fetch(ctx)
		})
		if recovered := catcher.Recovered(); recovered != nil {
			var zero T
			resource.value = zero
			resource.err = fmt.Errorf("resource fetch panicked: %v", recovered.Value)
		}
	}()

	return resource
}

func Resolved[T interface{}](value T, err error) *Resource[T] {
	resource := &Resource[T]{
		done:  make(chan struct{}),
		value: value,
		err:   err,
	}
	close(resource.done)
	return resource
}

// Derive builds a resource from the settled result of parent. The parent is
// not fetched again; fn sees its value and error as-is.
func Derive[T interface{}, U interface{}](
	ctx context.Context,
	parent *Resource[T],
	fn func(value T, err error) (U, error),
) *Resource[U] {
	return NewResource(ctx, func(ctx context.Context) (U, error) {
		value, err := parent.Await(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero U
			return zero, ctxErr
		}
		return fn(value, err)
	})
}

func (r *Resource[T]) Await(ctx context.Context) (T, error) {
	if r.Settled() {
		return r.value, r.err
	}

	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (r *Resource[T]) Settled() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}
