package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

// exposeErrorDetail adds the underlying error to 500 responses. Off in production.
var exposeErrorDetail atomic.Bool

// ExposeErrorDetail toggles error detail in 500 responses
func ExposeErrorDetail(enabled bool) {
	exposeErrorDetail.Store(enabled)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, domain.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.Envelope{
		Success: false,
		Message: message,
		Error:   errorCode(status),
	})
}

// respondValidationError reports every failed field by its JSON path
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = formatValidationError(fe)
		}
	}
	respondJSON(w, http.StatusBadRequest, domain.Envelope{
		Success: false,
		Message: "one or more fields failed validation",
		Error:   domain.ErrorCodeValidation,
		Errors:  fields,
	})
}

// fieldPath drops the struct name from a namespace like CreateQuotationRequest.client.name
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

func parseIDParam(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps service sentinels to HTTP responses
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "you do not have permission to perform this action")
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, errorMessage(err))
	case errors.Is(err, service.ErrAccountDisabled):
		respondError(w, http.StatusForbidden, errorMessage(err))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, errorMessage(err))
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrDocumentNumberConflict):
		respondError(w, http.StatusConflict, errorMessage(err))
	default:
		logger.Error("failed to "+action, zap.Error(err))
		msg := "failed to " + action
		if exposeErrorDetail.Load() {
			msg += ": " + err.Error()
		}
		respondError(w, http.StatusInternalServerError, msg)
	}
}

// errorMessage strips the leading sentinel text so clients see the specific reason
func errorMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrInvalidInput, service.ErrInvalidStatus, service.ErrConflict} {
		if prefix := sentinel.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorCodeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorCodeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorCodeForbidden
	case http.StatusNotFound:
		return domain.ErrorCodeNotFound
	case http.StatusConflict:
		return domain.ErrorCodeConflict
	case http.StatusTooManyRequests:
		return domain.ErrorCodeRateLimited
	default:
		return domain.ErrorCodeInternal
	}
}
