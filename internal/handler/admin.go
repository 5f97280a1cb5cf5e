package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/briefboard/briefboard-server/internal/audit"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/middleware"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequireAdmin)

	r.Get("/stats", h.Stats)
	r.Get("/users", h.ListUsers)
	r.Patch("/users/{id}/block", h.SetBlocked)
	r.Patch("/users/{id}/role", h.SetRole)
	r.Post("/users/{id}/password", h.ResetPassword)

	return r
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ParsePagination(r)

	accounts, total, err := h.adminService.ListUsers(r.Context(), params.Limit, params.Offset)
	if err != nil {
		writeError(w, err)
		return
	}

	users := make([]map[string]any, 0, len(accounts))
	for i := range accounts {
		users = append(users, formatAccount(&accounts[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":  users,
		"total":  total,
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

func (h *AdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAccount(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("id", "must be an integer"))
		return
	}

	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	if req.Blocked && id == admin.ID {
		writeError(w, apperrors.ValidationError("Cannot block your own account"))
		return
	}

	account, err := h.adminService.SetBlocked(r.Context(), id, req.Blocked)
	if err != nil {
		writeError(w, err)
		return
	}

	eventType := audit.EventAccountUnblocked
	if req.Blocked {
		eventType = audit.EventAccountBlocked
	}
	audit.LogFromRequest(r, audit.Event{
		Type:      eventType,
		AccountID: admin.ID,
		Handle:    admin.Handle,
		Details:   map[string]interface{}{"targetId": id},
	})

	writeJSON(w, http.StatusOK, formatAccount(account))
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAccount(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("id", "must be an integer"))
		return
	}

	var req struct {
		Role model.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	account, err := h.adminService.SetRole(r.Context(), id, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventRoleChanged,
		AccountID: admin.ID,
		Handle:    admin.Handle,
		Details: map[string]interface{}{
			"targetId": id,
			"role":     string(req.Role),
		},
	})

	writeJSON(w, http.StatusOK, formatAccount(account))
}

func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAccount(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperrors.InvalidInput("id", "must be an integer"))
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	account, err := h.adminService.ResetPassword(r.Context(), id, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventPasswordReset,
		AccountID: admin.ID,
		Handle:    admin.Handle,
		Details:   map[string]interface{}{"targetId": id},
	})

	writeJSON(w, http.StatusOK, formatAccount(account))
}
