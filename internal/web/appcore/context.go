package appcore

import (
	"context"
	"errors"

	"ssrmodes/internal/posts"
)

var errPostServiceUnavailable = errors.New("post service unavailable")

type PostService interface {
	ListPostMetadata(ctx context.Context) ([]posts.PostMetadata, error)
	GetPost(ctx context.Context, id uint64) (*posts.Post, error)
}

// Site holds the settings every page layout needs.
type Site struct {
	Title             string
	RootURL           string
	StylesheetURL     string
	DatastarScriptURL string
}

type Context struct {
	service PostService
	site    Site
}

func NewContext(service PostService, site Site) *Context {
	if site.Title == "" {
		site.Title = DefaultSiteTitle
	}
	return &Context{service: service, site: site}
}

func (c *Context) Site() Site {
	if c == nil {
		return Site{Title: DefaultSiteTitle}
	}
	return c.site
}

func postService(appCtx *Context) (PostService, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errPostServiceUnavailable
	}
	return appCtx.service, nil
}
