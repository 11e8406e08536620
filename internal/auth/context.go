package auth

import (
	"context"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
)

// UserContext holds the identity established for the current request
type UserContext struct {
	UserID   uuid.UUID
	FullName string
	Email    string
	Role     domain.UserRoleType
}

type contextKey string

const userContextKey contextKey = "userContext"

// NewUserContext builds the request identity from a stored user
func NewUserContext(user *domain.User) *UserContext {
	return &UserContext{
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the user is a supervisor or admin
func (u *UserContext) IsPrivileged() bool {
	return u.Role.IsPrivileged()
}

func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}
