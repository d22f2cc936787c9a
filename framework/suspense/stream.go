package suspense

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/sourcegraph/conc/pool"
)

const boundaryIDPrefix = "ssr-"

// swapScript replaces a fallback placeholder with the content of the
// template streamed after it.
const swapScript = `<script>function __ssrSwap(id){` +
	`var p=document.getElementById(id),t=document.getElementById(id+"-content");` +
	`if(!p||!t)return;p.replaceWith(t.content.cloneNode(true));t.remove();}</script>`

type streamKey struct{}

type deferredBoundary struct {
	id   string
	body Body
}

type resolvedBoundary struct {
	id   string
	html []byte
}

type stream struct {
	mode Mode
	head *headState

	nextID   int
	deferred []deferredBoundary
	drained  bool
	swapSent bool
}

func newStream(mode Mode) *stream {
	return &stream{
		mode: mode,
		head: &headState{inline: mode != Async},
	}
}

func (s *stream) bind(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, streamKey{}, s)
	return withHead(ctx, s.head)
}

func streamFrom(ctx context.Context) *stream {
	s, _ := ctx.Value(streamKey{}).(*stream)
	return s
}

// detached returns a context in which boundaries render inline. Deferred
// boundaries render with it so nested boundaries do not reach back into
// the response stream.
func detached(ctx context.Context) context.Context {
	return context.WithValue(ctx, streamKey{}, (*stream)(nil))
}

// Render writes component to w using mode. In Async mode nothing is written
// unless the whole page rendered, so callers can still answer with an error
// status. In the streaming modes output reaches w as it is produced.
func Render(ctx context.Context, w io.Writer, mode Mode, component templ.Component) error {
	if mode == Async {
		var buffer bytes.Buffer
		s := newStream(mode)
		if err := component.Render(s.bind(ctx), &buffer); err != nil {
			return err
		}
		_, err := w.Write(s.head.apply(buffer.Bytes()))
		return err
	}

	s := newStream(mode)
	ctx = s.bind(ctx)
	if err := component.Render(ctx, w); err != nil {
		return err
	}
	return s.drain(ctx, w)
}

// Outlet marks where out-of-order boundaries are streamed. Layouts place it
// right before </body>; without one, boundaries follow the document.
func Outlet() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := streamFrom(ctx)
		if s == nil {
			return nil
		}
		return s.drain(ctx, w)
	})
}

func (s *stream) reserveID() string {
	id := boundaryIDPrefix + strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

// flush pushes what was written to w so far to the client. Generated
// templates hand components a buffered writer whose Flush returns an error.
func flush(w io.Writer) error {
	switch f := w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case http.Flusher:
		f.Flush()
	}
	return nil
}

func (s *stream) drain(ctx context.Context, w io.Writer) error {
	if s.drained {
		return nil
	}
	s.drained = true
	if len(s.deferred) == 0 {
		return nil
	}
	if err := flush(w); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resolved := make(chan resolvedBoundary)
	workers := pool.New().WithContext(ctx)
	for _, boundary := range s.deferred {
		workers.Go(func(ctx context.Context) error {
			html, err := renderBoundary(ctx, boundary.body)
			if err != nil {
				return fmt.Errorf("resolve boundary %s: %w", boundary.id, err)
			}

			select {
			case resolved <- resolvedBoundary{id: boundary.id, html: html}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- workers.Wait()
		close(resolved)
	}()

	var writeErr error
	for boundary := range resolved {
		if writeErr != nil {
			continue
		}
		if writeErr = s.writeResolved(w, boundary); writeErr != nil {
			cancel()
		}
	}
	workersErr := <-waitErr

	if writeErr != nil {
		return writeErr
	}
	return workersErr
}

func (s *stream) writeResolved(w io.Writer, boundary resolvedBoundary) error {
	var chunk bytes.Buffer
	if !s.swapSent {
		chunk.WriteString(swapScript)
		s.swapSent = true
	}
	chunk.WriteString(`<template id="` + boundary.id + `-content">`)
	chunk.Write(boundary.html)
	chunk.WriteString(`</template><script>__ssrSwap("` + boundary.id + `")</script>`)

	if _, err := w.Write(chunk.Bytes()); err != nil {
		return err
	}
	return flush(w)
}

func renderBoundary(ctx context.Context, body Body) ([]byte, error) {
	ctx = detached(ctx)
	component, err := body(ctx)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := component.Render(ctx, &buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
