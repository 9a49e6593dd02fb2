// Package rest provides HTTP handlers for identity operations.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	usererrors "github.com/swiftcart/swiftcart/internal/user/errors"
	"github.com/swiftcart/swiftcart/internal/user/service"
	"github.com/swiftcart/swiftcart/pkg/web"
)

// Handler handles HTTP requests for identity operations.
type Handler struct {
	service  service.UserService
	validate *validator.Validate
	log      *slog.Logger
}

// NewHandler creates a new identity Handler.
func NewHandler(svc service.UserService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger,
	}
}

// RegisterRoutes attaches the identity routes. The profile route
// forwards the caller's bearer token to the provider instead of
// verifying it locally.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.Get("/me", h.me)
	})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	var dto service.SignupDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Missing required fields: email, password, name")
		return
	}

	result, err := h.service.Signup(r.Context(), dto)
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusCreated, map[string]any{
		"success":       true,
		"message":       "User created successfully. Please check your email to verify your account.",
		"userId":        result.UserID,
		"userConfirmed": result.UserConfirmed,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	var dto service.LoginDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Missing required fields: email, password")
		return
	}

	tokens, err := h.service.Login(r.Context(), dto)
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Login successful",
		"accessToken":  tokens.AccessToken,
		"idToken":      tokens.IDToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		web.RespondError(w, log, http.StatusUnauthorized, "Missing authorization header")
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	profile, err := h.service.Profile(r.Context(), token)
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success": true,
		"user":    profile,
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, usererrors.ErrUserAlreadyExists):
		web.RespondError(w, log, http.StatusBadRequest, "User already exists")
	case errors.Is(err, usererrors.ErrInvalidUserData):
		web.RespondError(w, log, http.StatusBadRequest, "Invalid user data")
	case errors.Is(err, usererrors.ErrInvalidCredentials):
		web.RespondError(w, log, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, usererrors.ErrEmailNotVerified):
		web.RespondError(w, log, http.StatusBadRequest, "Please verify your email before logging in")
	default:
		log.Error("identity operation failed", "error", err)
		web.RespondInternal(w, log, err)
	}
}

func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.log.With("request_id", middleware.GetReqID(r.Context()))
}
