package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/middleware"
	"github.com/briefboard/briefboard-server/internal/service"
)

type AssistHandler struct {
	assistService *service.AssistService
}

func NewAssistHandler(assistService *service.AssistService) *AssistHandler {
	return &AssistHandler{assistService: assistService}
}

func (h *AssistHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.RequireAuth).Post("/projects/improve", h.ImproveProject)
	r.With(middleware.RequireAuth).Post("/projects/review", h.ReviewProject)
	r.Post("/offers/improve", h.ImproveOffer)
	r.Post("/offers/review", h.ReviewOffer)

	return r
}

// quotaIdentity keys the suggestion quota: the account for logged-in clients,
// the client address for anonymous freelancers.
func quotaIdentity(r *http.Request) (string, *int64) {
	if account := middleware.GetAccount(r.Context()); account != nil {
		return fmt.Sprintf("account:%d", account.ID), &account.ID
	}
	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	return "ip:" + ip, nil
}

func (h *AssistHandler) ImproveProject(w http.ResponseWriter, r *http.Request) {
	key, actorID := quotaIdentity(r)

	var input service.ProjectImproveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	out, err := h.assistService.ImproveProject(r.Context(), key, actorID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *AssistHandler) ReviewProject(w http.ResponseWriter, r *http.Request) {
	key, actorID := quotaIdentity(r)

	var input service.ProjectImproveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	out, err := h.assistService.ReviewProject(r.Context(), key, actorID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *AssistHandler) ImproveOffer(w http.ResponseWriter, r *http.Request) {
	key, actorID := quotaIdentity(r)

	var input service.OfferAssistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	out, err := h.assistService.ImproveOffer(r.Context(), key, actorID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *AssistHandler) ReviewOffer(w http.ResponseWriter, r *http.Request) {
	key, actorID := quotaIdentity(r)

	var input service.OfferAssistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	out, err := h.assistService.ReviewOffer(r.Context(), key, actorID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
