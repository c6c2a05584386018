// Package httpapi exposes the authenticator over a small JSON API. It
// translates sentinel errors into status codes and carries no business
// logic of its own.
package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ledgerline/payroll-server/internal/common"
	"github.com/ledgerline/payroll-server/internal/logging"
	"github.com/ledgerline/payroll-server/internal/server/auth"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	auth   *auth.Authenticator
	logger logging.Logger
}

func NewHandler(a *auth.Authenticator, logger logging.Logger) *Handler {
	return &Handler{auth: a, logger: logger}
}

// Register wires the auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/refresh", h.handleRefresh)
	mux.HandleFunc("/api/auth/logout", h.handleLogout)
	mux.HandleFunc("/api/auth/introspect", h.handleIntrospect)
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type identityResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	TenantID   string `json:"tenant_id"`
	TenantName string `json:"tenant_name,omitempty"`
}

type loginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	Identity     identityResponse `json:"identity"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type introspectResponse struct {
	Active   bool              `json:"active"`
	Identity *identityResponse `json:"identity,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), email, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		case errors.Is(err, common.ErrAccountLocked):
			writeError(w, http.StatusForbidden, "account_locked", "account is temporarily locked")
		case errors.Is(err, common.ErrAccountInactive):
			writeError(w, http.StatusForbidden, "account_inactive", "account is deactivated")
		default:
			h.logger.Error(r.Context(), "login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		Identity:     toIdentityResponse(result.Identity),
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req refreshRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	access, err := h.auth.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired refresh token")
			return
		}
		h.logger.Error(r.Context(), "refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	result := h.auth.Introspect(r.Context(), token)

	resp := introspectResponse{Active: result.Active}
	if result.Identity != nil {
		ir := toIdentityResponse(*result.Identity)
		resp.Identity = &ir
	}
	writeJSON(w, http.StatusOK, resp)
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func toIdentityResponse(s auth.IdentitySummary) identityResponse {
	return identityResponse{
		ID:         s.ID,
		Email:      s.Email,
		Name:       s.Name,
		Role:       s.Role,
		TenantID:   s.TenantID,
		TenantName: s.TenantName,
	}
}
