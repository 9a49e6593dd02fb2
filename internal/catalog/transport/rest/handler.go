// Package rest provides HTTP handlers for the product catalog.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	perrors "github.com/swiftcart/swiftcart/internal/catalog/errors"
	"github.com/swiftcart/swiftcart/internal/catalog/service"
	"github.com/swiftcart/swiftcart/pkg/auth"
	"github.com/swiftcart/swiftcart/pkg/web"
)

const adminGroup = "admin"

// Handler handles HTTP requests for products.
type Handler struct {
	service  service.ProductService
	verifier auth.Verifier
	validate *validator.Validate
	log      *slog.Logger
}

// NewHandler creates a new product Handler.
func NewHandler(svc service.ProductService, verifier auth.Verifier, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		verifier: verifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger,
	}
}

// RegisterRoutes attaches the product routes. Reads are public,
// mutations require an authenticated caller in the admin group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(web.Authenticate(h.verifier, h.log))
			r.Use(web.RequireGroup(adminGroup, h.log))
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	products, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list products", "error", err)
		web.RespondInternal(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	id := r.PathValue("id")
	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success": true,
		"product": product,
	})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	var dto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Product name and a positive price are required")
		return
	}
	product, err := h.service.Create(r.Context(), dto, h.callerID(r))
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	id := r.PathValue("id")
	var dto service.ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Stock must not be negative")
		return
	}
	product, err := h.service.Update(r.Context(), id, dto, h.callerID(r))
	if err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	log := h.loggerWithReqID(r)
	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, log, err)
		return
	}
	web.RespondJSON(w, log, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted successfully",
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		web.RespondError(w, log, http.StatusNotFound, "Product not found")
	case errors.Is(err, perrors.ErrNoFieldsToUpdate):
		web.RespondError(w, log, http.StatusBadRequest, "No fields to update")
	case errors.Is(err, perrors.ErrInvalidProduct):
		web.RespondError(w, log, http.StatusBadRequest, "Product name and a positive price are required")
	default:
		log.Error("catalog operation failed", "error", err)
		web.RespondInternal(w, log, err)
	}
}

// callerID resolves the acting user from the request claims. Reads have
// no claims attached and fall back to an empty id.
func (h *Handler) callerID(r *http.Request) string {
	claims, ok := web.GetClaims(r.Context())
	if !ok {
		return ""
	}
	if claims.Email != "" {
		return claims.Email
	}
	return claims.UserID
}

func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.log.With("request_id", middleware.GetReqID(r.Context()))
}
