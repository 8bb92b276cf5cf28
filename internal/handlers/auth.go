package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rekrut-id/apiserver/internal/services"
	"github.com/rekrut-id/apiserver/types"
)

const credentialsMismatchMessage = "The provided credentials do not match our records."

// AuthHandler provides the token authentication endpoints.
type AuthHandler struct {
	auth     *services.AuthService
	reporter *Reporter
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(auth *services.AuthService, reporter *Reporter) *AuthHandler {
	return &AuthHandler{auth: auth, reporter: reporter}
}

// AuthRouter registers auth routes on the given router. The router must
// already run the Authenticate middleware.
func AuthRouter(r chi.Router, auth *services.AuthService, reporter *Reporter) {
	handler := NewAuthHandler(auth, reporter)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/logout", withIdentity(handler.Logout))
	r.Get("/user", withIdentity(handler.Me))
}

// Register creates an account and returns it with its first token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeValidation(w, http.StatusUnprocessableEntity, "Validation failed", bodyErrors())
		return
	}

	user, token, err := h.auth.Register(r.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeValidation(w, http.StatusUnprocessableEntity, "Validation failed", verr.Fields)
			return
		}
		h.reporter.Internal(w, r, "Registration", err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		User:    user,
		Token:   token,
	})
}

// Login verifies credentials and returns a new token. Any token issued
// before stops working.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeValidation(w, http.StatusUnprocessableEntity, "Validation failed", bodyErrors())
		return
	}

	user, token, err := h.auth.Login(r.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeValidation(w, http.StatusUnprocessableEntity, "Validation failed", verr.Fields)
		case errors.Is(err, services.ErrAuthentication):
			writeValidation(w, http.StatusUnauthorized, "Login failed", map[string][]string{
				"email": {credentialsMismatchMessage},
			})
		default:
			h.reporter.Internal(w, r, "Login", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// Logout ends the session of the authenticated user.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, identity services.Identity) {
	if err := h.auth.Logout(r.Context(), identity); err != nil {
		if errors.Is(err, services.ErrAuthentication) {
			writeMessage(w, http.StatusUnauthorized, "Logout failed: User not authenticated or invalid token.")
			return
		}
		h.reporter.Internal(w, r, "Logout", err)
		return
	}

	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, identity services.Identity) {
	user, ok := identity.User()
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

type AuthResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
	Token   string     `json:"token"`
}

type UserResponse struct {
	User types.User `json:"User"`
}
