package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/maelik/dungeonmaster/internal/provider/assistant"
	"github.com/maelik/dungeonmaster/internal/render"
	gameService "github.com/maelik/dungeonmaster/internal/service/game"
	"github.com/maelik/dungeonmaster/pkg/utils"
)

// Handler exposes the game endpoints consumed by the browser UI.
type Handler struct {
	gameSvc *gameService.Service
	log     zerolog.Logger
}

// New creates the game handler.
func New(gameSvc *gameService.Service, log zerolog.Logger) *Handler {
	return &Handler{gameSvc: gameSvc, log: log}
}

// RegisterRoutes mounts the game routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/newgame", h.handleNewGame)
	r.Post("/message", h.handleMessage)
	r.Get("/history/{threadId}", h.handleHistory)
}

type newGameResponse struct {
	ThreadID string          `json:"threadId"`
	Initial  string          `json:"initial"`
	HTML     string          `json:"html"`
	Choices  []render.Choice `json:"choices"`
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess, initial, err := h.gameSvc.StartSession(r.Context())
	if err != nil {
		h.respondUpstreamError(w, err, "could not start a new game")
		return
	}

	rendered := render.Reply(initial)
	utils.RespondJSON(w, http.StatusOK, newGameResponse{
		ThreadID: sess.ThreadID,
		Initial:  initial,
		HTML:     rendered.Markup,
		Choices:  rendered.Choices,
	})
}

type messageRequest struct {
	ThreadID string `json:"threadId"`
	Message  string `json:"message"`
}

type messageResponse struct {
	Reply    string          `json:"reply"`
	ThreadID string          `json:"threadId"`
	HTML     string          `json:"html"`
	Choices  []render.Choice `json:"choices"`
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload messageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ThreadID == "" || payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "threadId and message are required")
		return
	}

	reply, err := h.gameSvc.SubmitTurn(r.Context(), payload.ThreadID, payload.Message)
	if err != nil {
		if errors.Is(err, gameService.ErrUnknownSession) {
			utils.RespondError(w, http.StatusBadRequest, "unknown threadId, start a new game")
			return
		}
		h.respondUpstreamError(w, err, "the game master could not answer")
		return
	}

	rendered := render.Reply(reply)
	utils.RespondJSON(w, http.StatusOK, messageResponse{
		Reply:    reply,
		ThreadID: payload.ThreadID,
		HTML:     rendered.Markup,
		Choices:  rendered.Choices,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadId")

	messages, err := h.gameSvc.History(threadID)
	if err != nil {
		if errors.Is(err, gameService.ErrUnknownSession) {
			utils.RespondError(w, http.StatusBadRequest, "unknown threadId")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

// respondUpstreamError maps gateway failures onto plain-text 500 bodies,
// keeping the poll-timeout message distinct from a run that failed.
func (h *Handler) respondUpstreamError(w http.ResponseWriter, err error, fallback string) {
	h.log.Error().Err(err).Msg("gateway call failed")

	var runErr *gameService.RunFailedError
	switch {
	case errors.Is(err, assistant.ErrPollTimeout):
		utils.RespondError(w, http.StatusInternalServerError, "the assistant run timed out before finishing")
	case errors.As(err, &runErr):
		utils.RespondError(w, http.StatusInternalServerError, runErr.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, fallback)
	}
}
