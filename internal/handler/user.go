package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nic96/minipress/internal/model"
	"github.com/nic96/minipress/internal/service"
)

// UserHandler serves the user CRUD endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// MessageResponse is the body of write operations that have no entity to
// return, such as deletes.
type MessageResponse struct {
	Message string `json:"message"`
}

func deletedMessage(count int64) MessageResponse {
	return MessageResponse{Message: fmt.Sprintf("Successfully deleted %d record(s)", count)}
}

// HandleList returns all users.
// GET /user
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGet returns a single user by ID.
// GET /user/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "Invalid User ID")
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleCreate stores a new user.
// POST /user
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid JSON body")
		return
	}

	user, err := h.users.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("user created",
		slog.String("id", user.ID.String()),
		slog.String("username", user.Username))
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate rewrites an existing user.
// PUT /user/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "Invalid User ID")
		return
	}

	var req model.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "Invalid JSON body")
		return
	}

	user, err := h.users.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes a user.
// DELETE /user/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeValidationError(w, "Invalid User ID")
		return
	}

	count, err := h.users.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("user deleted", slog.String("id", id.String()))
	writeJSON(w, http.StatusOK, deletedMessage(count))
}
