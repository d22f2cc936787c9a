package web

import (
	"ssrmodes/framework"
	"ssrmodes/framework/suspense"
	"ssrmodes/internal/web/appcore"
	"ssrmodes/internal/web/components"

	"github.com/a-h/templ"
)

// Routes is the page table. The home page streams out of order; the two
// post routes render the same view async and in order.
func Routes() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageWithLiveRouteHandler[*appcore.Context, framework.EmptyParams, appcore.HomePageView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.HomePageView]{
				Pattern: appcore.HomePattern,
				SSR:     suspense.OutOfOrder,
				Load:    appcore.LoadHomePage,
				Render:  components.HomePage,
				Layouts: []framework.LayoutRenderer[appcore.HomePageView]{layout[appcore.HomePageView]},
			},
			Live: framework.LiveModule[appcore.HomePageView]{
				SelectorID: appcore.PostsRegionID,
				Render:     components.PostsSection,
			},
		},
		postRoute(appcore.PostPattern, suspense.Async),
		postRoute(appcore.PostInOrderPattern, suspense.InOrder),
	}
}

func postRoute(pattern string, mode suspense.Mode) framework.RouteHandler[*appcore.Context] {
	return framework.PageWithLiveRouteHandler[*appcore.Context, appcore.PostParams, appcore.PostPageView]{
		Page: framework.PageModule[*appcore.Context, appcore.PostParams, appcore.PostPageView]{
			Pattern:     pattern,
			SSR:         mode,
			ParseParams: appcore.ParsePostParams(pattern),
			Load:        appcore.LoadPostPage,
			Render:      components.PostPage,
			Layouts:     []framework.LayoutRenderer[appcore.PostPageView]{layout[appcore.PostPageView]},
		},
		Live: framework.LiveModule[appcore.PostPageView]{
			SelectorID: appcore.PostRegionID,
			Render:     components.PostSection,
		},
	}
}

func layout[VM appcore.LayoutView](view VM, child templ.Component) templ.Component {
	return components.Layout(view, child)
}

func notFoundPage(appCtx *appcore.Context) func(framework.NotFoundContext) templ.Component {
	return func(notFoundContext framework.NotFoundContext) templ.Component {
		view := appcore.NotFoundView{
			Site: appCtx.Site(),
			Path: notFoundContext.RequestPath,
		}
		return components.Layout(view, components.NotFound(view.Path))
	}
}
