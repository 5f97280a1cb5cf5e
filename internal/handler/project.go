package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/middleware"
	"github.com/briefboard/briefboard-server/internal/service"
)

type ProjectHandler struct {
	briefService      *service.BriefService
	submissionService *service.SubmissionService
}

func NewProjectHandler(briefService *service.BriefService, submissionService *service.SubmissionService) *ProjectHandler {
	return &ProjectHandler{
		briefService:      briefService,
		submissionService: submissionService,
	}
}

func (h *ProjectHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.RequireAuth).Post("/", h.Create)
	r.With(middleware.RequireAuth).Get("/", h.List)
	r.Get("/public/{token}", h.PublicView)
	r.With(middleware.RequireAuth).Get("/{id}", h.Get)
	r.Post("/{id}/offers", h.SubmitOffer)

	return r
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	var input service.CreateBriefInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	brief, err := h.briefService.Create(r.Context(), account.ID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, brief)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	briefs, err := h.briefService.ListByOwner(r.Context(), account.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": briefs})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("id", "must be an integer"))
		return
	}

	brief, offers, err := h.briefService.GetOwned(r.Context(), account.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project": brief,
		"offers":  offers,
	})
}

func (h *ProjectHandler) PublicView(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	brief, err := h.briefService.GetPublicByToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project": formatPublicBrief(brief),
	})
}

// SubmitOffer accepts an anonymous offer against a project's public token.
// The path parameter is the token, not the numeric id.
func (h *ProjectHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "id")

	var input service.SubmitOfferInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	offer, err := h.submissionService.SubmitOffer(r.Context(), token, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, offer)
}
