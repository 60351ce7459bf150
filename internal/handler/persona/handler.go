package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yunseochoi/famtalk/backend/internal/model/persona"
	"github.com/yunseochoi/famtalk/backend/pkg/utils"
)

// Summary is the persona projection exposed to clients. Prompt internals
// stay on the backend.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Handler serves read-only persona routes.
type Handler struct {
	personas persona.Store
}

// New creates the persona handler.
func New(personas persona.Store) *Handler {
	return &Handler{personas: personas}
}

// RegisterRoutes mounts the persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	items := h.personas.List()
	summaries := make([]Summary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, Summary{ID: item.ID, Name: item.Name})
	}
	utils.RespondJSON(w, http.StatusOK, summaries)
}
