package web

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"ssrmodes/framework/httpserver"
	"ssrmodes/internal/api"
	"ssrmodes/internal/config"
	"ssrmodes/internal/web/appcore"
)

const (
	staticPrefix  = "/pkg/"
	stylesheetURL = staticPrefix + "ssr_modes.css"
)

//go:embed static
var staticFiles embed.FS

// NewHandler wires the pages, the server functions and the static assets
// into one HTTP handler.
func NewHandler(cfg config.Config, service appcore.PostService, logger *slog.Logger) (http.Handler, error) {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("open embedded assets: %w", err)
	}

	appCtx := appcore.NewContext(service, appcore.Site{
		Title:             appcore.DefaultSiteTitle,
		RootURL:           cfg.RootURL,
		StylesheetURL:     stylesheetURL,
		DatastarScriptURL: cfg.DatastarScriptURL,
	})

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext: appCtx,
		Handlers:   Routes(),
		Routes:     api.NewHandler(service, logger).Routes,
		Static: httpserver.StaticMount{
			URLPrefix: staticPrefix,
			Dir:       cfg.StaticDir,
			FS:        assets,
		},
		CachePolicies: cachePolicies(cfg),
		NotFoundPage:  notFoundPage(appCtx),
		Logger:        logger,
		Compress:      cfg.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}
	return handler, nil
}
