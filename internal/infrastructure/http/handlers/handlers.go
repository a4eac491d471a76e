// Package handlers provides HTTP handlers for the planner JSON API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/weeklydish/planner/internal/infrastructure/http/middleware"
	"github.com/weeklydish/planner/internal/infrastructure/security"
	"github.com/weeklydish/planner/internal/ports/inbound"
	"github.com/weeklydish/planner/pkg/errors"
	"go.uber.org/zap"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	recipes   inbound.RecipeService
	plans     inbound.MealPlanService
	shopping  inbound.ShoppingService
	validator *security.ValidationService
	logger    *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	recipes inbound.RecipeService,
	plans inbound.MealPlanService,
	shopping inbound.ShoppingService,
	validator *security.ValidationService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		recipes:   recipes,
		plans:     plans,
		shopping:  shopping,
		validator: validator,
		logger:    logger.Named("api"),
	}
}

// SuccessResponse acknowledges a command
type SuccessResponse struct {
	Success bool `json:"success"`
	Saved   *int `json:"saved,omitempty"`
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps err onto the error body and status
func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("code", string(appErr.Code)),
			zap.String("details", appErr.Details),
			zap.Error(appErr.Cause),
		)
	}
	middleware.WriteError(w, r, appErr)
}

// decodeJSON decodes the request body into dst and validates it
func (h *APIHandlers) decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case stderrors.As(err, &maxErr):
			return errors.NewAppError(errors.CodePayloadTooLarge, "Request body too large", "")
		case stderrors.Is(err, io.EOF):
			return errors.NewBadRequestError("Request body required")
		default:
			return errors.NewBadRequestError("Invalid JSON payload").WithCause(err)
		}
	}
	return h.validator.ValidateStruct(dst)
}

// userID returns the authenticated caller
func userID(r *http.Request) (string, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return "", errors.NewUnauthorizedError("")
	}
	return id, nil
}
