package suspense

import (
	"context"
	"errors"
	"io"

	"github.com/a-h/templ"
)

var errNilBody = errors.New("suspense body is nil")

// Body resolves the content of a boundary. It typically awaits one or more
// resources and returns the component built from their values.
type Body func(ctx context.Context) (templ.Component, error)

// Suspense renders body according to the render mode of the surrounding
// stream. Outside of a stream the body is awaited inline.
func Suspense(fallback templ.Component, body Body) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if body == nil {
			return errNilBody
		}

		s := streamFrom(ctx)
		if s == nil || s.drained || s.mode == Async {
			return renderInline(ctx, w, body)
		}

		if s.mode == InOrder {
			if err := flush(w); err != nil {
				return err
			}
			return renderInline(ctx, w, body)
		}

		id := s.reserveID()
		if _, err := io.WriteString(w, `<div id="`+id+`" data-suspense>`); err != nil {
			return err
		}
		if fallback != nil {
			if err := fallback.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}

		s.deferred = append(s.deferred, deferredBoundary{id: id, body: body})
		return nil
	})
}

func renderInline(ctx context.Context, w io.Writer, body Body) error {
	component, err := body(ctx)
	if err != nil {
		return err
	}
	return component.Render(ctx, w)
}

// ErrorBoundary turns a failing body into its fallback. Joined errors are
// handed to the fallback one by one. Cancellation is passed through since
// nobody is left to read the fallback.
func ErrorBoundary(fallback func(errs []error) templ.Component, body Body) Body {
	return func(ctx context.Context) (templ.Component, error) {
		component, err := body(ctx)
		if err == nil {
			return component, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		return fallback(flattenErrors(err)), nil
	}
}

func flattenErrors(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	out := make([]error, 0, 2)
	for _, inner := range joined.Unwrap() {
		if inner == nil {
			continue
		}
		out = append(out, flattenErrors(inner)...)
	}
	return out
}
