// Package rest provides HTTP handlers for orders.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	ordererrors "github.com/swiftcart/swiftcart/internal/order/errors"
	"github.com/swiftcart/swiftcart/internal/order/service"
	"github.com/swiftcart/swiftcart/pkg/auth"
	"github.com/swiftcart/swiftcart/pkg/web"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	service  service.OrderService
	verifier auth.Verifier
	validate *validator.Validate
	log      *slog.Logger
}

// NewHandler creates a new order Handler.
func NewHandler(svc service.OrderService, verifier auth.Verifier, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		verifier: verifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger,
	}
}

// RegisterRoutes attaches the order routes. Every route requires an
// authenticated caller, orders are always scoped to the token subject.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(web.Authenticate(h.verifier, h.log))
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}/cancel", h.cancelOrder)
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	claims, ok := web.GetClaims(r.Context())
	if !ok {
		web.RespondError(w, log, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto service.OrderCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			h.respondServiceError(w, log, validationError(validationErrors))
			return
		}
		web.RespondError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), claims.UserID, claims.Email, dto)
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	claims, ok := web.GetClaims(r.Context())
	if !ok {
		web.RespondError(w, log, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.service.FindByUserID(r.Context(), claims.UserID)
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	claims, ok := web.GetClaims(r.Context())
	if !ok {
		web.RespondError(w, log, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := h.parseOrderID(w, r, log)
	if !ok {
		return
	}

	order, err := h.service.FindByID(r.Context(), id, claims.UserID)
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success": true,
		"order":   order,
	})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	claims, ok := web.GetClaims(r.Context())
	if !ok {
		web.RespondError(w, log, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := h.parseOrderID(w, r, log)
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), id, claims.UserID); err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order cancelled successfully",
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ordererrors.ErrOrderNotFound):
		web.RespondError(w, log, http.StatusNotFound, "Order not found")
	case errors.Is(err, ordererrors.ErrOrderNotCancellable):
		web.RespondError(w, log, http.StatusBadRequest, "Order cannot be cancelled")
	case errors.Is(err, ordererrors.ErrEmptyOrder):
		web.RespondError(w, log, http.StatusBadRequest, "Order must contain at least one item")
	case errors.Is(err, ordererrors.ErrInvalidItem):
		web.RespondError(w, log, http.StatusBadRequest, "Each item requires productId, productName, quantity and price")
	default:
		log.Error("order operation failed", "error", err)
		web.RespondInternal(w, log, err)
	}
}

// validationError maps an items-level failure to the empty-order error
// and everything else to the per-item message.
func validationError(errs validator.ValidationErrors) error {
	for _, fe := range errs {
		if fe.Field() == "Items" {
			return ordererrors.ErrEmptyOrder
		}
	}
	return ordererrors.ErrInvalidItem
}

func (h *Handler) parseOrderID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		web.RespondError(w, log, http.StatusBadRequest, "Invalid order ID: "+raw)
		return 0, false
	}
	return id, true
}

func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.log.With("request_id", middleware.GetReqID(r.Context()))
}
