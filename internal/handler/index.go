package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/nic96/minipress/internal/auth"
)

// IndexHandler serves the server-rendered home page. Templates are parsed
// once at startup.
type IndexHandler struct {
	templates *template.Template
	appName   string
	logger    *slog.Logger
}

func NewIndexHandler(templateDir, appName string, logger *slog.Logger) (*IndexHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "index.html"),
	)
	if err != nil {
		return nil, err
	}

	return &IndexHandler{templates: tmpl, appName: appName, logger: logger}, nil
}

// HandleIndex renders the home page. The identity middleware runs before
// this handler, so a logged-in visitor shows up in the context.
// GET /
func (h *IndexHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"AppName": h.appName,
		"User":    auth.UserFromContext(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render index template", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
