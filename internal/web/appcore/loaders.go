package appcore

import (
	"context"
	"errors"
	"net/http"

	"ssrmodes/framework"
	"ssrmodes/framework/suspense"
	"ssrmodes/internal/posts"
)

type PostParams struct {
	Pattern string
	ID      string
}

// ParsePostParams reads the raw id of a post route mounted at pattern.
func ParsePostParams(pattern string) func(*http.Request) PostParams {
	return func(r *http.Request) PostParams {
		return PostParams{Pattern: pattern, ID: framework.URLParam(r, PostIDParam)}
	}
}

func LoadHomePage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	_ framework.EmptyParams,
) (HomePageView, error) {
	service, err := postService(appCtx)
	if err != nil {
		return HomePageView{}, err
	}

	items := suspense.NewResource(ctx, service.ListPostMetadata)
	count := suspense.Derive(ctx, items, func(items []posts.PostMetadata, err error) (int, error) {
		if err != nil {
			return 0, nil
		}
		return len(items), nil
	})

	return HomePageView{
		Site:      appCtx.Site(),
		Posts:     items,
		PostCount: count,
	}, nil
}

func LoadPostPage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params PostParams,
) (PostPageView, error) {
	service, err := postService(appCtx)
	if err != nil {
		return PostPageView{}, err
	}

	view := PostPageView{
		Site:        appCtx.Site(),
		Pattern:     params.Pattern,
		RequestedID: params.ID,
	}

	id, err := posts.ParseID(params.ID)
	if err != nil {
		view.Post = suspense.Resolved(posts.Post{}, err)
		return view, nil
	}

	view.Post = suspense.NewResource(ctx, func(ctx context.Context) (posts.Post, error) {
		return fetchPost(ctx, service, id)
	})
	return view, nil
}

func fetchPost(ctx context.Context, service PostService, id uint64) (posts.Post, error) {
	post, err := service.GetPost(ctx, id)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return posts.Post{}, err
	case err != nil:
		return posts.Post{}, posts.NewServerError(err)
	case post == nil:
		return posts.Post{}, posts.ErrPostNotFound
	}
	return *post, nil
}
