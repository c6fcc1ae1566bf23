package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nic96/minipress/internal/auth"
	"github.com/nic96/minipress/internal/model"
	"github.com/nic96/minipress/internal/service"
)

// PostHandler serves the post CRUD endpoints. Reads are public; writes go
// through the identity middleware, so the authenticated user is always
// present in the context here.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

// HandleList returns all posts.
// GET /post
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGet returns a single post by ID.
// GET /post/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "Invalid Post ID")
		return
	}

	post, err := h.posts.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleCreate stores a new post owned by the logged-in user.
// POST /post
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req model.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid JSON body")
		return
	}

	post, err := h.posts.Create(r.Context(), user, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("post created",
		slog.String("id", post.ID.String()),
		slog.String("slug", post.Slug),
		slog.String("user", user.Username))
	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate rewrites the title and content of an existing post.
// PUT /post/{id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "Invalid Post ID")
		return
	}

	var req model.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid JSON body")
		return
	}

	post, err := h.posts.Update(r.Context(), user, id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post.
// DELETE /post/{id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "Invalid Post ID")
		return
	}

	count, err := h.posts.Delete(r.Context(), user, id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("post deleted",
		slog.String("id", id.String()),
		slog.String("user", user.Username))
	writeJSON(w, http.StatusOK, deletedMessage(count))
}
