package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ssrmodes/internal/posts"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	items   []posts.PostMetadata
	post    *posts.Post
	err     error
	getIDs  []uint64
	listHit int
}

func (f *fakeService) ListPostMetadata(context.Context) ([]posts.PostMetadata, error) {
	f.listHit++
	return f.items, f.err
}

func (f *fakeService) GetPost(_ context.Context, id uint64) (*posts.Post, error) {
	f.getIDs = append(f.getIDs, id)
	return f.post, f.err
}

func newRouter(service PostService) http.Handler {
	r := chi.NewRouter()
	NewHandler(service, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).Routes(r)
	return r
}

func postJSON(t *testing.T, handler http.Handler, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListPostMetadata(t *testing.T) {
	service := &fakeService{items: []posts.PostMetadata{{ID: 0, Title: "My first post"}, {ID: 1, Title: "My second post"}}}
	rec := postJSON(t, newRouter(service), ListPostMetadataPath, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":0,"title":"My first post"},{"id":1,"title":"My second post"}]`, rec.Body.String())
	assert.Equal(t, 1, service.listHit)
}

func TestGetPostJSONBody(t *testing.T) {
	service := &fakeService{post: &posts.Post{ID: 1, Title: "My second post", Content: "This is my second post"}}
	rec := postJSON(t, newRouter(service), GetPostPath, `{"id":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"title":"My second post","content":"This is my second post"}`, rec.Body.String())
	assert.Equal(t, []uint64{1}, service.getIDs)
}

func TestGetPostFormBody(t *testing.T) {
	service := &fakeService{post: &posts.Post{ID: 2, Title: "My third post"}}
	req := httptest.NewRequest(http.MethodPost, GetPostPath, strings.NewReader(url.Values{"id": {"2"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{2}, service.getIDs)
}

func TestGetPostMissingIsNull(t *testing.T) {
	service := &fakeService{}
	rec := postJSON(t, newRouter(service), GetPostPath, `{"id":"999"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
	assert.Equal(t, []uint64{999}, service.getIDs)
}

func TestGetPostInvalidID(t *testing.T) {
	for _, body := range []string{`{"id":"abc"}`, `{"id":-1}`, `{}`, `not json`} {
		service := &fakeService{}
		rec := postJSON(t, newRouter(service), GetPostPath, body)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"InvalidId","message":"Invalid post ID."}`, rec.Body.String(), body)
		assert.Empty(t, service.getIDs, body)
	}
}

func TestServiceFailureIsServerError(t *testing.T) {
	service := &fakeService{err: errors.New("database on fire")}
	handler := newRouter(service)

	for _, path := range []string{ListPostMetadataPath, GetPostPath} {
		rec := postJSON(t, handler, path, `{"id":1}`)

		require.Equal(t, http.StatusInternalServerError, rec.Code, path)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ServerError", body["error"])
		assert.Equal(t, "Server error.", body["message"])
		assert.NotContains(t, rec.Body.String(), "database on fire")
	}
}

func TestCancelledRequestWritesNothing(t *testing.T) {
	service := &fakeService{err: context.Canceled}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, ListPostMetadataPath, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	assert.Empty(t, rec.Body.String())
}

func TestOnlyPostIsRouted(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, GetPostPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetPostFailureAfterValidID(t *testing.T) {
	service := &fakeService{err: posts.NewServerError(errors.New("disk gone"))}
	rec := postJSON(t, newRouter(service), GetPostPath, `{"id":"4"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"ServerError","message":"Server error."}`, rec.Body.String())
	assert.Equal(t, []uint64{4}, service.getIDs)
}

func TestGetPostFormIDIsNotTrimmed(t *testing.T) {
	service := &fakeService{}
	req := httptest.NewRequest(http.MethodPost, GetPostPath, strings.NewReader(url.Values{"id": {" 1"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"InvalidId","message":"Invalid post ID."}`, rec.Body.String())
	assert.Empty(t, service.getIDs)
}
