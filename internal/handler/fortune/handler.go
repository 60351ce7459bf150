package fortune

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	fortuneService "github.com/yunseochoi/famtalk/backend/internal/service/fortune"
	"github.com/yunseochoi/famtalk/backend/pkg/utils"
)

// Handler serves the daily-luck endpoint.
type Handler struct {
	fortuneSvc *fortuneService.Service
}

// New creates the fortune handler.
func New(fortuneSvc *fortuneService.Service) *Handler {
	return &Handler{fortuneSvc: fortuneSvc}
}

// RegisterRoutes mounts the fortune routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/dailyluck", h.handleDailyLuck)
}

func (h *Handler) handleDailyLuck(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	fortune, err := h.fortuneSvc.DailyLuck(r.Context(), payload.Name)
	if err != nil {
		log.Printf("[fortune] provider call failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "completion provider call failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"fortune": fortune})
}
