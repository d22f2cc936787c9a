package framework

import (
	"context"
	"fmt"
	"net/http"

	"ssrmodes/framework/router"
	"ssrmodes/framework/suspense"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

const liveRouteSuffix = "live"

type EmptyParams struct{}

type ParamsParser[P interface{}] func(r *http.Request) P

type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (VM, error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	SSR         suspense.Mode
	ParseParams ParamsParser[P]
	Load        PageLoader[C, P, VM]
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]
}

// LiveModule re-renders the data region of a page, identified by
// SelectorID, and sends it to the browser as an element patch.
type LiveModule[VM interface{}] struct {
	SelectorID string
	Render     PageRenderer[VM]
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	RenderPage(r *http.Request, w http.ResponseWriter, mode suspense.Mode, component templ.Component) error
	PatchLive(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	RespondServerError(w http.ResponseWriter, r *http.Request, err error)
}

type NotFoundContext struct {
	RequestPath string
}

type RouteHandler[C interface{}] interface {
	Patterns() []string
	Mount(runtime RuntimeContext[C], r chi.Router)
}

// URLParam returns the value of a {name} segment of the matched route.
func URLParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

type PageOnlyRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
}

func (h PageOnlyRouteHandler[C, P, VM]) Patterns() []string {
	return []string{h.Page.Pattern}
}

func (h PageOnlyRouteHandler[C, P, VM]) Mount(runtime RuntimeContext[C], r chi.Router) {
	r.Get(h.Page.Pattern, func(w http.ResponseWriter, req *http.Request) {
		servePageModule(runtime, w, req, h.Page)
	})
}

type PageWithLiveRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
	Live LiveModule[VM]
}

func (h PageWithLiveRouteHandler[C, P, VM]) Patterns() []string {
	return []string{h.Page.Pattern, LivePattern(h.Page.Pattern)}
}

func (h PageWithLiveRouteHandler[C, P, VM]) Mount(runtime RuntimeContext[C], r chi.Router) {
	r.Get(h.Page.Pattern, func(w http.ResponseWriter, req *http.Request) {
		servePageModule(runtime, w, req, h.Page)
	})
	r.Get(LivePattern(h.Page.Pattern), func(w http.ResponseWriter, req *http.Request) {
		serveLiveModule(runtime, w, req, h.Page, h.Live)
	})
}

func LivePattern(pattern string) string {
	return router.Join(pattern, liveRouteSuffix)
}

func applyLayouts[VM interface{}](
	layouts []LayoutRenderer[VM],
	view VM,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](view, wrapped)
	}
	return wrapped
}

func parseParams[P interface{}](parser ParamsParser[P], r *http.Request) P {
	if parser == nil {
		var zero P
		return zero
	}
	return parser(r)
}

func servePageModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) {
	params := parseParams(module.ParseParams, r)
	view, err := module.Load(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("load route %q: %w", module.Pattern, err))
		return
	}

	component := applyLayouts(module.Layouts, view, module.Render(view))
	if err := runtime.RenderPage(r, w, module.SSR, component); err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("render route %q (%s): %w", module.Pattern, module.SSR, err))
	}
}

func serveLiveModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	page PageModule[C, P, VM],
	live LiveModule[VM],
) {
	params := parseParams(page.ParseParams, r)
	view, err := page.Load(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("load live route %q: %w", page.Pattern, err))
		return
	}

	if err := runtime.PatchLive(w, r, live.SelectorID, live.Render(view)); err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("patch live route %q: %w", page.Pattern, err))
	}
}
