package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/appcurriculum/backend/internal/middlewares"
	"github.com/appcurriculum/backend/internal/services"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	logger    *zap.Logger
	validator *validator.Validate
}

func newBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{
		logger:    logger,
		validator: newValidator(),
	}
}

// newValidator creates a validator that reports JSON field names
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to HTTP statuses. Unexpected errors are logged and hidden.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, services.ErrModuleNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrQuizNotFound):
		h.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrModuleLocked):
		h.RespondError(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Error(message,
			zap.Error(err),
			zap.String("request_id", middlewares.GetRequestID(r.Context())),
		)
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// userID extracts the authenticated learner, answering 401 when it is missing
func (h *BaseHandler) userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middlewares.GetUserID(r.Context())
	if !ok {
		h.logger.Error("user ID not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user ID not found in context")
	}
	return userID, ok
}

// decodeAndValidate decodes the JSON body into req and validates it, answering 400 on failure
func (h *BaseHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return false
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, validationMessage(fe))
		}
		h.RespondError(w, http.StatusBadRequest, strings.Join(messages, "; "))
		return false
	}

	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
