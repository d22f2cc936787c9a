package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"ssrmodes/internal/posts"

	"github.com/go-chi/chi/v5"
)

const (
	ListPostMetadataPath = "/api/list_post_metadata"
	GetPostPath          = "/api/get_post"
)

const maxRequestBytes = 1 << 16

type PostService interface {
	ListPostMetadata(ctx context.Context) ([]posts.PostMetadata, error)
	GetPost(ctx context.Context, id uint64) (*posts.Post, error)
}

// Handler serves the post endpoints as server functions for client-side
// navigation.
type Handler struct {
	service PostService
	logger  *slog.Logger
}

func NewHandler(service PostService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post(ListPostMetadataPath, h.ListPostMetadata)
	r.Post(GetPostPath, h.GetPost)
}

func (h *Handler) ListPostMetadata(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPostMetadata(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, h.logger, http.StatusOK, items)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := readPostID(r)
	if err != nil {
		var postErr *posts.Error
		if !errors.As(err, &postErr) {
			postErr = &posts.Error{Kind: posts.KindInvalidID, Err: err}
		}
		writeJSONResponse(w, h.logger, http.StatusBadRequest, postErr)
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	// A missing post is a successful call answered with null.
	writeJSONResponse(w, h.logger, http.StatusOK, post)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil && errors.Is(err, r.Context().Err()) {
		h.logger.Debug("server function cancelled", "path", r.URL.Path, "err", err)
		return
	}

	h.logger.Error("server function failed", "path", r.URL.Path, "err", err)
	writeJSONResponse(w, h.logger, http.StatusInternalServerError, posts.NewServerError(err))
}

type getPostRequest struct {
	ID json.RawMessage `json:"id"`
}

// readPostID accepts {"id": N} as JSON or id=N as a form value.
func readPostID(r *http.Request) (uint64, error) {
	raw, err := rawPostID(r)
	if err != nil {
		return 0, &posts.Error{Kind: posts.KindInvalidID, Err: err}
	}
	return posts.ParseID(raw)
}

func rawPostID(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		return r.Form.Get("id"), nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return "", err
	}
	var req getPostRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	return strings.Trim(string(req.ID), `"`), nil
}

// writeJSONResponse encodes before sending headers so an encoding failure
// still produces a well-formed error response.
func writeJSONResponse(w http.ResponseWriter, logger *slog.Logger, statusCode int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.Error("encode json response", "err", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"ServerError","message":"Server error."}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Debug("write json response", "err", err)
	}
}
