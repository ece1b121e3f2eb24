package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wanderlist/api/internal/identity"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	creds, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.log.Error("signup failed", "err", err)
		writeError(w, http.StatusBadGateway, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":    creds.User,
		"session": creds.Session,
		"message": "User created successfully. Please check your email for verification.",
	})
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	creds, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, identity.ErrEmailNotConfirmed):
			writeError(w, http.StatusUnauthorized, "Please verify your email before logging in")
		default:
			h.log.Error("login failed", "err", err)
			writeError(w, http.StatusBadGateway, "Failed to login")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    creds.User,
		"session": creds.Session,
	})
}

// Logout handles POST /api/auth/logout.
// Revocation is best-effort against the provider; an absent token still
// logs the caller out client-side, so it answers 200.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), bearerToken(r)); err != nil {
		h.log.Error("logout failed", "err", err)
		writeError(w, http.StatusBadGateway, "Failed to logout")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me. Runs behind RequireUser.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.auth.SendPasswordReset(r.Context(), req.Email, h.frontendURL+"/reset-password"); err != nil {
		h.log.Error("password reset failed", "err", err)
		writeError(w, http.StatusBadGateway, "Failed to send password reset email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}
