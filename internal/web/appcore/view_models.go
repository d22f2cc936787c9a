package appcore

import (
	"strconv"

	"ssrmodes/framework"
	"ssrmodes/framework/router"
	"ssrmodes/framework/suspense"
	"ssrmodes/internal/posts"
)

const DefaultSiteTitle = "My Great Blog"

const (
	HomePattern        = "/"
	PostPattern        = "/post/{id}"
	PostInOrderPattern = "/post_in_order/{id}"
	PostIDParam        = "id"
)

const (
	PostsRegionID = "posts"
	PostRegionID  = "post"
)

type LayoutView interface {
	LayoutSite() Site
}

type HomePageView struct {
	Site      Site
	Posts     *suspense.Resource[[]posts.PostMetadata]
	PostCount *suspense.Resource[int]
}

func (v HomePageView) LayoutSite() Site {
	return v.Site
}

type PostPageView struct {
	Site Site
	// Pattern is the route the page was served from. Its live endpoint
	// renders in the same mode.
	Pattern     string
	RequestedID string
	Post        *suspense.Resource[posts.Post]
}

func (v PostPageView) LayoutSite() Site {
	return v.Site
}

func (v PostPageView) LiveURL() string {
	return PostLiveURL(v.Pattern, v.RequestedID)
}

// NotFoundView is the layout view for unmatched paths.
type NotFoundView struct {
	Site Site
	Path string
}

func (v NotFoundView) LayoutSite() Site {
	return v.Site
}

func PostURL(id uint64) string {
	return router.Expand(PostPattern, map[string]string{PostIDParam: strconv.FormatUint(id, 10)})
}

func PostInOrderURL(id uint64) string {
	return router.Expand(PostInOrderPattern, map[string]string{PostIDParam: strconv.FormatUint(id, 10)})
}

func HomeLiveURL() string {
	return framework.LivePattern(HomePattern)
}

// PostLiveURL returns the live endpoint of the page pattern for the raw id
// taken from the request, so invalid ids refresh into the same error.
func PostLiveURL(pattern string, rawID string) string {
	return router.Expand(framework.LivePattern(pattern), map[string]string{PostIDParam: rawID})
}
