package components

//go:generate go tool templgen -path . -base ../../..

import (
	"context"
	"errors"

	"ssrmodes/framework/suspense"
	"ssrmodes/internal/markdown"
	"ssrmodes/internal/posts"
	"ssrmodes/internal/web/appcore"

	"github.com/a-h/templ"
)

const descriptionLength = 160

func headDefaults(site appcore.Site) suspense.HeadDefaults {
	return suspense.HeadDefaults{
		Title: site.Title,
		Meta:  map[string]string{"color-scheme": "dark light"},
	}
}

func codeStyles() templ.Component {
	return templ.Raw("<style>" + markdown.CodeStyles() + "</style>")
}

// liveAction is the datastar expression that refreshes a region from url.
func liveAction(url string) string {
	return "@get('" + url + "')"
}

func postListBody(view appcore.HomePageView) suspense.Body {
	return func(ctx context.Context) (templ.Component, error) {
		items, err := view.Posts.Await(ctx)
		if err != nil {
			return nil, err
		}
		count, err := view.PostCount.Await(ctx)
		if err != nil {
			return nil, err
		}
		return postList(count, items), nil
	}
}

func postBody(view appcore.PostPageView) suspense.Body {
	return func(ctx context.Context) (templ.Component, error) {
		post, err := view.Post.Await(ctx)
		if err != nil {
			return nil, err
		}
		return postArticle(post, view.Site), nil
	}
}

func errorMessage(err error) string {
	var postErr *posts.Error
	if errors.As(err, &postErr) {
		return postErr.Message()
	}
	return posts.KindServerError.Message()
}
