package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yunseochoi/famtalk/backend/internal/model/chat"
	"github.com/yunseochoi/famtalk/backend/internal/model/persona"
	"github.com/yunseochoi/famtalk/backend/internal/service/ai"
	chatService "github.com/yunseochoi/famtalk/backend/internal/service/chat"
	"github.com/yunseochoi/famtalk/backend/pkg/utils"
)

// Completer is the slice of the completion gateway the handler depends on.
type Completer interface {
	Complete(ctx context.Context, transcript []chat.Turn, nextUserMessage string) (string, error)
}

// Handler serves the conversation lifecycle endpoints.
type Handler struct {
	chatSvc   *chatService.Service
	personas  persona.Store
	completer Completer
}

// New creates the conversation handler.
func New(chatSvc *chatService.Service, personas persona.Store, completer Completer) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		personas:  personas,
		completer: completer,
	}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/startConversation", h.handleStart)
	r.Post("/startSingleConversation", h.handleStartSingle)
	r.Post("/continueConversation", h.handleContinue)
}

// handleStart opens a persona-to-persona session. The transcript is primed
// with one system turn per persona, in request order.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Gpt1ID string `json:"gpt1Id"`
		Gpt2ID string `json:"gpt2Id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	first, ok1 := h.personas.FindByID(payload.Gpt1ID)
	second, ok2 := h.personas.FindByID(payload.Gpt2ID)
	if !ok1 || !ok2 {
		utils.RespondError(w, http.StatusBadRequest, "invalid persona ids")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(),
		[]string{first.ID, second.ID},
		[]string{
			ai.RenderSystemPrompt(first.SystemMessage),
			ai.RenderSystemPrompt(second.SystemMessage),
		},
	)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("[conversation] started session=%s personas=%s,%s", session.ID, first.ID, second.ID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"conversationId": session.ID,
		"gpt1":           first.Name,
		"gpt2":           second.Name,
	})
}

// handleStartSingle opens a user-to-persona session with one system turn.
func (h *Handler) handleStartSingle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		GptID string `json:"gptId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, ok := h.personas.FindByID(payload.GptID)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "invalid persona id")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(),
		[]string{p.ID},
		[]string{ai.RenderSystemPrompt(p.SystemMessage)},
	)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("[conversation] started single session=%s persona=%s", session.ID, p.ID)
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"conversationId": session.ID,
		"gpt":            p.Name,
	})
}

// handleContinue advances a session by one exchange: the next user turn is
// taken verbatim from the request or synthesized from the speaker label,
// relayed with the full transcript to the provider, and the resulting pair
// of turns is appended. On provider failure nothing is appended.
func (h *Handler) handleContinue(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID string `json:"conversationId"`
		UserMessage    string `json:"userMessage"`
		SpeakerID      string `json:"speakerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.chatSvc.Continue(r.Context(), payload.ConversationID,
		func(ctx context.Context, transcript []chat.Turn) ([]chat.Turn, error) {
			next := ai.SynthesizeUserTurn(transcript, payload.UserMessage, payload.SpeakerID)
			reply, err := h.completer.Complete(ctx, transcript, next)
			if err != nil {
				return nil, err
			}
			return []chat.Turn{
				{Role: chat.RoleUser, Content: next},
				{Role: chat.RoleAssistant, Content: reply},
			}, nil
		})
	if err != nil {
		switch {
		case errors.Is(err, chatService.ErrSessionNotFound):
			utils.RespondError(w, http.StatusBadRequest, "invalid conversation id")
		case errors.Is(err, ai.ErrGateway):
			log.Printf("[conversation] provider call failed for session=%s: %v", payload.ConversationID, err)
			utils.RespondError(w, http.StatusInternalServerError, "completion provider call failed")
		default:
			log.Printf("[conversation] continue failed for session=%s: %v", payload.ConversationID, err)
			utils.RespondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"messages": chat.WithoutSystem(updated),
	})
}
