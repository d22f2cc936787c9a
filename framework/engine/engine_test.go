package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ssrmodes/framework"
	"ssrmodes/framework/suspense"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

type testAppContext struct {
	greeting string
}

type idParams struct {
	ID string
}

type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

func textComponent(value string) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func wrapComponent(tag string, child templ.Component) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "["+tag+"]"); err != nil {
			return err
		}
		if err := child.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "[/"+tag+"]")
		return err
	})
}

type recorded struct {
	mode     suspense.Mode
	body     string
	selector string
	err      error
}

func newTestEngine(
	t *testing.T,
	handlers []framework.RouteHandler[*testAppContext],
	rec *recorded,
) *Engine[*testAppContext] {
	t.Helper()

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{greeting: "hello"},
		Handlers:   handlers,
		RenderPage: func(_ *http.Request, _ http.ResponseWriter, mode suspense.Mode, component templ.Component) error {
			var b bytes.Buffer
			if err := component.Render(context.Background(), &b); err != nil {
				return err
			}
			rec.mode = mode
			rec.body = b.String()
			return nil
		},
		PatchLive: func(_ http.ResponseWriter, _ *http.Request, selectorID string, component templ.Component) error {
			var b bytes.Buffer
			if err := component.Render(context.Background(), &b); err != nil {
				return err
			}
			rec.selector = selectorID
			rec.body = b.String()
			return nil
		},
		HandleServerError: func(w http.ResponseWriter, _ *http.Request, err error) {
			rec.err = err
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return routeEngine
}

func serve(routeEngine *Engine[*testAppContext], path string) *httptest.ResponseRecorder {
	mux := chi.NewRouter()
	routeEngine.Mount(mux)

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func postModule(load framework.PageLoader[*testAppContext, idParams, string]) framework.PageModule[*testAppContext, idParams, string] {
	return framework.PageModule[*testAppContext, idParams, string]{
		Pattern: "/post/{id}",
		SSR:     suspense.InOrder,
		ParseParams: func(r *http.Request) idParams {
			return idParams{ID: framework.URLParam(r, "id")}
		},
		Load:   load,
		Render: func(view string) templ.Component { return textComponent(view) },
		Layouts: []framework.LayoutRenderer[string]{
			func(_ string, child templ.Component) templ.Component {
				return wrapComponent("layout", child)
			},
		},
	}
}

func TestMountServesPageWithParamsAndLayouts(t *testing.T) {
	rec := &recorded{}
	routeEngine := newTestEngine(t, []framework.RouteHandler[*testAppContext]{
		framework.PageOnlyRouteHandler[*testAppContext, idParams, string]{
			Page: postModule(func(_ context.Context, appCtx *testAppContext, _ *http.Request, params idParams) (string, error) {
				return appCtx.greeting + " " + params.ID, nil
			}),
		},
	}, rec)

	resp := serve(routeEngine, "/post/42")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Code)
	}
	if rec.body != "[layout]hello 42[/layout]" {
		t.Fatalf("expected layout-wrapped page, got %q", rec.body)
	}
	if rec.mode != suspense.InOrder {
		t.Fatalf("expected in-order mode, got %s", rec.mode)
	}

	if resp := serve(routeEngine, "/missing"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected unmatched route to 404, got %d", resp.Code)
	}
}

func TestMountServesLiveRoute(t *testing.T) {
	rec := &recorded{}
	module := postModule(func(_ context.Context, _ *testAppContext, _ *http.Request, params idParams) (string, error) {
		return "post " + params.ID, nil
	})
	routeEngine := newTestEngine(t, []framework.RouteHandler[*testAppContext]{
		framework.PageWithLiveRouteHandler[*testAppContext, idParams, string]{
			Page: module,
			Live: framework.LiveModule[string]{
				SelectorID: "post",
				Render:     func(view string) templ.Component { return textComponent("<article>" + view + "</article>") },
			},
		},
	}, rec)

	serve(routeEngine, "/post/7/live")
	if rec.selector != "post" {
		t.Fatalf("expected selector post, got %q", rec.selector)
	}
	if rec.body != "<article>post 7</article>" {
		t.Fatalf("expected live fragment without layout, got %q", rec.body)
	}
}

func TestLoadErrorsReachServerErrorHandler(t *testing.T) {
	rec := &recorded{}
	errBoom := errors.New("boom")
	routeEngine := newTestEngine(t, []framework.RouteHandler[*testAppContext]{
		framework.PageOnlyRouteHandler[*testAppContext, idParams, string]{
			Page: postModule(func(context.Context, *testAppContext, *http.Request, idParams) (string, error) {
				return "", errBoom
			}),
		},
	}, rec)

	resp := serve(routeEngine, "/post/1")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, resp.Code)
	}
	if !errors.Is(rec.err, errBoom) {
		t.Fatalf("expected wrapped load error, got %v", rec.err)
	}
	if !strings.Contains(rec.err.Error(), `load route "/post/{id}"`) {
		t.Fatalf("expected route pattern in error, got %v", rec.err)
	}
}

func TestNewRejectsConflictingPatterns(t *testing.T) {
	load := func(context.Context, *testAppContext, *http.Request, idParams) (string, error) { return "", nil }
	first := postModule(load)
	second := postModule(load)
	second.Pattern = "/post/{slug}"

	_, err := New(Config[*testAppContext]{
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.PageOnlyRouteHandler[*testAppContext, idParams, string]{Page: first},
			framework.PageOnlyRouteHandler[*testAppContext, idParams, string]{Page: second},
		},
		RenderPage: func(*http.Request, http.ResponseWriter, suspense.Mode, templ.Component) error { return nil },
		PatchLive:  func(http.ResponseWriter, *http.Request, string, templ.Component) error { return nil },
	})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
}

func TestNewRequiresCallbacks(t *testing.T) {
	if _, err := New(Config[*testAppContext]{}); err == nil {
		t.Fatal("expected error without render callback")
	}
	_, err := New(Config[*testAppContext]{
		RenderPage: func(*http.Request, http.ResponseWriter, suspense.Mode, templ.Component) error { return nil },
	})
	if err == nil {
		t.Fatal("expected error without patch callback")
	}
}
