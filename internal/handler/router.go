package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yunseochoi/famtalk/backend/internal/handler/conversation"
	"github.com/yunseochoi/famtalk/backend/internal/handler/fortune"
	"github.com/yunseochoi/famtalk/backend/internal/handler/persona"
	middlewarePkg "github.com/yunseochoi/famtalk/backend/internal/middleware"
	personaModel "github.com/yunseochoi/famtalk/backend/internal/model/persona"
	chatService "github.com/yunseochoi/famtalk/backend/internal/service/chat"
	fortuneService "github.com/yunseochoi/famtalk/backend/internal/service/fortune"
	"github.com/yunseochoi/famtalk/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, chatSvc *chatService.Service, completer conversation.Completer, fortuneSvc *fortuneService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(personas)
	conversationHandler := conversation.New(chatSvc, personas, completer)
	fortuneHandler := fortune.New(fortuneSvc)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		conversationHandler.RegisterRoutes(api)
		fortuneHandler.RegisterRoutes(api)

		api.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
