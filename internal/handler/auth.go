package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *Metrics
}

// NewAuthHandler creates a new AuthHandler. metrics may be nil.
func NewAuthHandler(auth *service.AuthService, metrics *Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account.
// POST /auth/register
// Request:  {"email":"...","password":"..."}
// Response: 201 {"id":"...","email":"...","createdAt":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.authEvent("register", err)
		writeServiceError(w, "register user", err)
		return
	}
	h.metrics.authEvent("register", nil)

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleLogin checks credentials and issues an access and a refresh token,
// both in the body and as cookies.
// POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.authEvent("login", err)
		writeServiceError(w, "login user", err)
		return
	}
	h.metrics.authEvent("login", nil)

	cookies := h.auth.Cookies()
	http.SetCookie(w, cookies.AccessCookie(pair.AccessToken))
	http.SetCookie(w, cookies.RefreshCookie(pair.RefreshToken))

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// HandleRefresh mints a new access token from the refresh_token cookie.
// The refresh token itself is returned unchanged.
// POST /auth/refresh
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(service.RefreshCookieName)
	if err != nil || c.Value == "" {
		h.metrics.authEvent("refresh", domain.ErrInvalidToken)
		writeError(w, http.StatusUnauthorized, "Refresh token not provided")
		return
	}

	access, err := h.auth.Refresh(r.Context(), c.Value)
	if err != nil {
		h.metrics.authEvent("refresh", err)
		writeServiceError(w, "refresh token", err)
		return
	}
	h.metrics.authEvent("refresh", nil)

	http.SetCookie(w, h.auth.Cookies().AccessCookie(access))

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: c.Value,
		TokenType:    "bearer",
	})
}

// HandleLogout clears both auth cookies. Tokens already issued stay valid
// until they expire.
// POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.auth.Logout() {
		http.SetCookie(w, c)
	}
	h.metrics.authEvent("logout", nil)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// HandleMe returns the currently authenticated user.
// GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUserByID(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrUserNotFound
		}
		writeServiceError(w, "get current user", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}
