package engine

import (
	"errors"
	"fmt"
	"net/http"

	"ssrmodes/framework"
	"ssrmodes/framework/router"
	"ssrmodes/framework/suspense"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	RenderPage func(r *http.Request, w http.ResponseWriter, mode suspense.Mode, component templ.Component) error
	PatchLive  func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	HandleServerError func(w http.ResponseWriter, r *http.Request, err error)
}

type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]

	renderPage func(r *http.Request, w http.ResponseWriter, mode suspense.Mode, component templ.Component) error
	patchLive  func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	serverError func(w http.ResponseWriter, r *http.Request, err error)
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}
	if cfg.PatchLive == nil {
		return nil, errors.New("patch live callback is required")
	}
	if err := validatePatterns(cfg.Handlers); err != nil {
		return nil, err
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	return &Engine[C]{
		appContext:  cfg.AppContext,
		handlers:    cfg.Handlers,
		renderPage:  cfg.RenderPage,
		patchLive:   cfg.PatchLive,
		serverError: serverError,
	}, nil
}

func validatePatterns[C interface{}](handlers []framework.RouteHandler[C]) error {
	seen := make(map[string]string, len(handlers)*2)
	for _, handler := range handlers {
		for _, pattern := range handler.Patterns() {
			key, err := router.PatternKey(pattern)
			if err != nil {
				return err
			}
			if existing, ok := seen[key]; ok {
				return fmt.Errorf("route pattern conflict: %q and %q", existing, pattern)
			}
			seen[key] = pattern
		}
	}
	return nil
}

func (engine *Engine[C]) Mount(r chi.Router) {
	for _, handler := range engine.handlers {
		handler.Mount(engine, r)
	}
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) RenderPage(
	r *http.Request,
	w http.ResponseWriter,
	mode suspense.Mode,
	component templ.Component,
) error {
	return engine.renderPage(r, w, mode, component)
}

func (engine *Engine[C]) PatchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	return engine.patchLive(w, r, selectorID, component)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, r *http.Request, err error) {
	engine.serverError(w, r, err)
}
