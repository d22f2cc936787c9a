package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"ssrmodes/framework"
	"ssrmodes/framework/engine"
	"ssrmodes/framework/suspense"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/starfederation/datastar-go/datastar"
)

const defaultCacheControlPolicy = "public, max-age=3600, s-maxage=3600"
const defaultHealthPath = "/healthz"
const defaultHealthBody = "ok"
const defaultStaticPrefix = "/pkg/"

type StaticMount struct {
	URLPrefix string
	// Dir takes precedence over FS when both are set.
	Dir string
	FS  fs.FS
}

type CachePolicies struct {
	HTML   string
	Static string
	Health string
	Error  string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		HTML:   defaultCacheControlPolicy,
		Static: defaultCacheControlPolicy,
		Health: defaultCacheControlPolicy,
		Error:  defaultCacheControlPolicy,
	}
}

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	// Routes mounts additional endpoints next to the page routes.
	Routes func(r chi.Router)

	Static StaticMount

	CachePolicies CachePolicies

	NotFoundPage func(notFoundContext framework.NotFoundContext) templ.Component
	Logger       *slog.Logger
	Compress     bool

	HealthPath string
	HealthBody string
}

type server[C interface{}] struct {
	cachePolicies CachePolicies
	notFoundPage  func(notFoundContext framework.NotFoundContext) templ.Component
	logger        *slog.Logger
	healthPath    string
	healthBody    string

	routeEngine *engine.Engine[C]
}

func New[C interface{}](cfg Config[C]) (http.Handler, error) {
	cachePolicies := withDefaultPolicies(cfg.CachePolicies)
	healthPath := normalizeHealthPath(cfg.HealthPath)
	healthBody := strings.TrimSpace(cfg.HealthBody)
	if healthBody == "" {
		healthBody = defaultHealthBody
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	srv := &server[C]{
		cachePolicies: cachePolicies,
		notFoundPage:  cfg.NotFoundPage,
		logger:        logger,
		healthPath:    healthPath,
		healthBody:    healthBody,
	}

	routeEngine, err := engine.New(engine.Config[C]{
		AppContext:        cfg.AppContext,
		Handlers:          cfg.Handlers,
		RenderPage:        srv.renderPage,
		PatchLive:         srv.patchLive,
		HandleServerError: srv.handleServerError,
	})
	if err != nil {
		return nil, fmt.Errorf("create route engine: %w", err)
	}
	srv.routeEngine = routeEngine

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(logRequests(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	if cfg.Compress {
		mux.Use(func(next http.Handler) http.Handler {
			return gzhttp.GzipHandler(next)
		})
	}
	mux.Use(trackCommit)

	if static := staticFileSystem(cfg.Static); static != nil {
		prefix := normalizeStaticPrefix(cfg.Static.URLPrefix)
		fileServer := http.StripPrefix(prefix, http.FileServer(static))
		mux.Handle(prefix+"*", withCachePolicy(cachePolicies.Static, fileServer))
	}

	mux.Get(healthPath, srv.handleHealth)
	if cfg.Routes != nil {
		cfg.Routes(mux)
	}
	routeEngine.Mount(mux)
	mux.NotFound(srv.handleNotFound)

	return mux, nil
}

func (s *server[C]) renderPage(
	r *http.Request,
	w http.ResponseWriter,
	mode suspense.Mode,
	component templ.Component,
) error {
	return s.renderPageWithStatus(r, w, mode, component, 0, s.cachePolicies.HTML)
}

func (s *server[C]) renderPageWithStatus(
	r *http.Request,
	w http.ResponseWriter,
	mode suspense.Mode,
	component templ.Component,
	statusCode int,
	cachePolicy string,
) error {
	setCachePolicy(w, cachePolicy)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	}
	return suspense.Render(r.Context(), w, mode, component)
}

func (s *server[C]) patchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	sse := datastar.NewSSE(w, r)
	return sse.PatchElementTempl(component, datastar.WithSelectorID(selectorID))
}

func (s *server[C]) handleNotFound(w http.ResponseWriter, r *http.Request) {
	notFoundContext := framework.NotFoundContext{
		RequestPath: r.URL.Path,
	}

	if s.notFoundPage == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}

	component := s.notFoundPage(notFoundContext)
	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}
	err := s.renderPageWithStatus(r, w, suspense.Async, component, http.StatusNotFound, s.cachePolicies.Error)
	if err != nil {
		s.handleServerError(w, r, fmt.Errorf("render not found page: %w", err))
	}
}

func (s *server[C]) handleServerError(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{
		"err", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	}

	if errors.Is(err, context.Canceled) {
		s.logger.Debug("request cancelled by client", attrs...)
		return
	}
	if isCommitted(w) {
		s.logger.Error("server error after response started", attrs...)
		return
	}

	setCachePolicy(w, s.cachePolicies.Error)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	s.logger.Error("server error", attrs...)
}

func (s *server[C]) handleHealth(w http.ResponseWriter, _ *http.Request) {
	setCachePolicy(w, s.cachePolicies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.healthBody))
}

func staticFileSystem(mount StaticMount) http.FileSystem {
	if dir := strings.TrimSpace(mount.Dir); dir != "" {
		return http.Dir(dir)
	}
	if mount.FS != nil {
		return http.FS(mount.FS)
	}
	return nil
}

func normalizeStaticPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return defaultStaticPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func normalizeHealthPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return defaultHealthPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	if strings.TrimSpace(policies.HTML) == "" {
		policies.HTML = defaults.HTML
	}
	if strings.TrimSpace(policies.Static) == "" {
		policies.Static = defaults.Static
	}
	if strings.TrimSpace(policies.Health) == "" {
		policies.Health = defaults.Health
	}
	if strings.TrimSpace(policies.Error) == "" {
		policies.Error = defaults.Error
	}
	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}

func withCachePolicy(policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCachePolicy(w, policy)
		next.ServeHTTP(w, r)
	})
}
