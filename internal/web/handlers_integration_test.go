package web

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"ssrmodes/internal/config"
	"ssrmodes/internal/posts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyService records GetPost calls made through the real service.
type spyService struct {
	*posts.Service

	mu     sync.Mutex
	getIDs []uint64
}

func (s *spyService) GetPost(ctx context.Context, id uint64) (*posts.Post, error) {
	s.mu.Lock()
	s.getIDs = append(s.getIDs, id)
	s.mu.Unlock()
	return s.Service.GetPost(ctx, id)
}

func (s *spyService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.getIDs)
}

func newTestHandler(t *testing.T) (http.Handler, *spyService) {
	t.Helper()

	store, err := posts.NewStore(posts.SeedPosts())
	require.NoError(t, err)
	service := &spyService{Service: posts.NewService(store, 0)}

	cfg := config.Config{DatastarScriptURL: "/datastar.js"}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler, err := NewHandler(cfg, service, logger)
	require.NoError(t, err)
	return handler, service
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHomePageStreamsPostList(t *testing.T) {
	t.Parallel()
	handler, _ := newTestHandler(t)

	rec := get(handler, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	fallback := strings.Index(body, "<p>Loading posts...</p>")
	found := strings.Index(body, "<p>Found 3 posts.</p>")
	require.NotEqual(t, -1, fallback, body)
	require.NotEqual(t, -1, found, body)
	assert.Less(t, fallback, found)
	assert.Contains(t, body, `<template id="ssr-0-content">`)
	assert.Equal(t, 3, strings.Count(body, "<li>"))
	for _, post := range posts.SeedPosts() {
		assert.Equal(t, 2, strings.Count(body, post.Title), post.Title)
	}
	assert.Contains(t, body, `<a href="/post/2">My third post</a>`)
	assert.Contains(t, body, `<a href="/post_in_order/2">My third post (in order)</a>`)
	assert.Contains(t, body, "<title>My Great Blog</title>")
}

func TestPostPageAsync(t *testing.T) {
	t.Parallel()
	handler, _ := newTestHandler(t)

	rec := get(handler, "/post/1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<title>My second post</title>")
	assert.Contains(t, body, `<meta name="description" content="This is my second post">`)
	assert.Contains(t, body, "<h1>My second post</h1>")
	assert.Contains(t, body, "<p>This is my second post</p>")
	assert.Contains(t, body, "The world's best content.")
	assert.Contains(t, body, `data-on:click="@get(&#39;/post/1/live&#39;)"`)
	assert.NotContains(t, body, "Loading post...")
}

func TestPostPageInOrder(t *testing.T) {
	t.Parallel()
	handler, _ := newTestHandler(t)

	rec := get(handler, "/post_in_order/0")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	shell := strings.Index(body, "The world's best content.")
	content := strings.Index(body, "<h1>My first post</h1>")
	require.NotEqual(t, -1, shell)
	require.NotEqual(t, -1, content)
	assert.Less(t, shell, content)
	assert.Contains(t, body, `document.title="My first post"`)
	assert.Contains(t, body, `data-on:click="@get(&#39;/post_in_order/0/live&#39;)"`)
	assert.NotContains(t, body, "Loading post...")
	assert.NotContains(t, body, "<template")
}

func TestPostPageNotFound(t *testing.T) {
	t.Parallel()
	handler, service := newTestHandler(t)

	for _, path := range []string{"/post/999", "/post_in_order/999"} {
		rec := get(handler, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(),
			`<div class="error"><h1>Something went wrong.</h1><ul><li>Post not found.</li></ul></div>`, path)
	}
	assert.Equal(t, 2, service.calls())
}

func TestPostPageInvalidIDSkipsService(t *testing.T) {
	t.Parallel()
	handler, service := newTestHandler(t)

	for _, path := range []string{"/post/abc", "/post/%201", "/post_in_order/1%20"} {
		rec := get(handler, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<li>Invalid post ID.</li>", path)
		assert.Contains(t, rec.Body.String(), "<title>My Great Blog</title>", path)
	}
	assert.Zero(t, service.calls())
}

func TestUnknownPathIsNotFound(t *testing.T) {
	t.Parallel()
	handler, _ := newTestHandler(t)

	rec := get(handler, "/nonexistent")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found.")
	assert.Contains(t, rec.Body.String(), "<main>")
}

func TestLivePatches(t *testing.T) {
	t.Parallel()
	handler, _ := newTestHandler(t)

	recHome := get(handler, "/live")
	require.Equal(t, http.StatusOK, recHome.Code)
	assert.Contains(t, recHome.Body.String(), "event: datastar-patch-elements")
	assert.Contains(t, recHome.Body.String(), "#posts")
	assert.Contains(t, recHome.Body.String(), "Found 3 posts.")
	assert.NotContains(t, recHome.Body.String(), "Loading posts...")

	recPost := get(handler, "/post_in_order/2/live")
	require.Equal(t, http.StatusOK, recPost.Code)
	assert.Contains(t, recPost.Body.String(), "event: datastar-patch-elements")
	assert.Contains(t, recPost.Body.String(), "#post")
	assert.Contains(t, recPost.Body.String(), "<h1>My third post</h1>")
	assert.NotContains(t, recPost.Body.String(), "<script>document.title")
}

func TestServerFunctionsAndAssets(t *testing.T) {
	t.Parallel()
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/get_post", strings.NewReader(`{"id":0}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":0,"title":"My first post","content":"This is my first post"}`, rec.Body.String())

	recCSS := get(handler, "/pkg/ssr_modes.css")
	require.Equal(t, http.StatusOK, recCSS.Code)
	assert.Contains(t, recCSS.Body.String(), "[data-suspense]")

	recHealth := get(handler, "/healthz")
	require.Equal(t, http.StatusOK, recHealth.Code)
	assert.Equal(t, "ok", recHealth.Body.String())
}
