package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/logger"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserLookup loads the stored user a token was issued for
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	tokens *TokenManager
	users  UserLookup
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(tokens *TokenManager, users UserLookup, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Authenticate validates the bearer token and loads the user on every request,
// so role changes and deactivation take effect immediately
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			writeAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		userID, _, err := m.tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
			m.logger.Error("failed to load user for token",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			writeAuthError(w, http.StatusInternalServerError, "failed to authenticate request")
			return
		}
		if user == nil {
			m.logger.Warn("token subject could not be resolved",
				zap.String("user_id", userID.String()),
			)
			writeAuthError(w, http.StatusUnauthorized, "user not found")
			return
		}
		if !user.IsActive {
			writeAuthError(w, http.StatusUnauthorized, "account is deactivated")
			return
		}

		userCtx := NewUserContext(user)
		logger.WithUser(m.logger, userCtx.UserID.String(), userCtx.Email, string(userCtx.Role)).
			Debug("request authenticated",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("auth_duration", time.Since(start)),
			)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// RequireRole middleware ensures user has one of the given roles
func (m *Middleware) RequireRole(roles ...domain.UserRoleType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := FromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !userCtx.HasAnyRole(roles...) {
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	code := domain.ErrorCodeUnauthorized
	switch status {
	case http.StatusForbidden:
		code = domain.ErrorCodeForbidden
	case http.StatusInternalServerError:
		code = domain.ErrorCodeInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.Envelope{
		Success: false,
		Message: message,
		Error:   code,
	})
}
