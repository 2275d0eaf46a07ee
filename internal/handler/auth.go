package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mbeckett/carworth/internal/domain"
	"github.com/mbeckett/carworth/internal/service"
	"github.com/mbeckett/carworth/internal/session"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// HandleSignup processes a JSON signup request.
// POST /api/auth/signup
// Request:  {"email":"...","password":"..."}
// Response: 201 {"user": {...}} with the session cookie set
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "An account with that email already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("signup user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.startSession(w, user)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleSignin processes a JSON signin request.
// POST /api/auth/signin
// Request:  {"email":"...","password":"..."}
// Response: 200 {"user": {...}} with the session cookie set
//
// An unknown email and a wrong password produce different responses (404 vs
// 401) — an email-enumeration leak carried over deliberately from the
// upstream behavior; see DESIGN.md.
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.auth.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No account with that email.")
			return
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Wrong email/password combination.")
			return
		}
		slog.Error("signin user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.startSession(w, user)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleSignout clears the session.
// POST /api/auth/signout
// Response: 204 No Content
func (h *AuthHandler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleWhoami returns the currently signed-in user.
// GET /api/auth/whoami
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleWhoami(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}

// startSession writes a fresh session bag holding the user's id. The cookie
// headers must go out before the JSON body.
func (h *AuthHandler) startSession(w http.ResponseWriter, user *domain.User) {
	sess := session.Values{}
	sess.SetUserID(user.ID)
	if err := h.sessions.Write(w, sess); err != nil {
		slog.Error("write session cookie", "error", err)
	}
}
