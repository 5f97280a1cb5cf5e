package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/middleware"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/service"
)

type OfferHandler struct {
	triageService *service.TriageService
}

func NewOfferHandler(triageService *service.TriageService) *OfferHandler {
	return &OfferHandler{triageService: triageService}
}

func (h *OfferHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequireAuth)

	r.Patch("/bulk/status", h.BulkSetStatus)
	r.Delete("/bulk", h.BulkDelete)
	r.Patch("/{id}/status", h.SetStatus)
	r.Delete("/{id}", h.Delete)

	return r
}

func (h *OfferHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("id", "must be an integer"))
		return
	}

	var req struct {
		Status model.OfferStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	offer, err := h.triageService.SetStatus(r.Context(), account.ID, id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("id", "must be an integer"))
		return
	}

	if err := h.triageService.DeleteOne(r.Context(), account.ID, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *OfferHandler) BulkSetStatus(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	var req struct {
		OfferIDs []int64           `json:"offerIds"`
		Status   model.OfferStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	offers, err := h.triageService.SetStatusBulk(r.Context(), account.ID, req.OfferIDs, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"offers":  offers,
		"updated": len(offers),
	})
}

func (h *OfferHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())

	var req struct {
		OfferIDs []int64 `json:"offerIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	deleted, err := h.triageService.DeleteBulk(r.Context(), account.ID, req.OfferIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}
