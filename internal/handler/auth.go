package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/briefboard/briefboard-server/internal/audit"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/middleware"
	"github.com/briefboard/briefboard-server/internal/service"
)

type AuthHandler struct {
	authService  *service.AuthService
	loginLimiter *middleware.LoginRateLimiter
	isProduction bool
}

func NewAuthHandler(authService *service.AuthService, loginLimiter *middleware.LoginRateLimiter, isProduction bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		isProduction: isProduction,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginLimiter.Handler).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle   string `json:"handle"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid JSON body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Handle, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, result.Token, h.isProduction)
	writeJSON(w, http.StatusOK, map[string]any{
		"account": formatAccount(result.Account),
		"created": result.Created,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
		if account := middleware.GetAccount(r.Context()); account != nil {
			audit.LogFromRequest(r, audit.Event{
				Type:      audit.EventLogout,
				AccountID: account.ID,
				Handle:    account.Handle,
			})
		}
	}

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeJSON(w, http.StatusOK, map[string]any{"account": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account": formatAccount(account),
	})
}
