package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/mapper"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles accounts: registration, login, profile and roles
type AuthService struct {
	users          UserStore
	tokens         *auth.TokenManager
	bootstrapAdmin string
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates an AuthService. An account registered with
// bootstrapAdminEmail starts out as admin; everyone else starts as user.
func NewAuthService(users UserStore, tokens *auth.TokenManager, bootstrapAdminEmail string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:          users,
		tokens:         tokens,
		bootstrapAdmin: normalizeEmail(bootstrapAdminEmail),
		logger:         logger,
		now:            time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponseDTO, error) {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if email == "" || fullName == "" {
		return nil, fmt.Errorf("%w: fullName and email are required", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if s.bootstrapAdmin != "" && email == s.bootstrapAdmin {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		FullName:     fullName,
		StaffID:      strings.TrimSpace(req.StaffID),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password give the same error.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponseDTO, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info("login rejected", zap.String("email", user.Email))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	return s.issue(user)
}

func (s *AuthService) GetProfile(ctx context.Context) (*domain.UserDTO, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, caller.UserID)
}

// UpdateProfile changes the caller's full name and staff id. Omitted fields keep their value.
func (s *AuthService) UpdateProfile(ctx context.Context, req *domain.UpdateProfileRequest) (*domain.UserDTO, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.load(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	fullName := user.FullName
	if req.FullName != nil {
		fullName = strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("%w: fullName must not be blank", ErrInvalidInput)
		}
	}
	staffID := user.StaffID
	if req.StaffID != nil {
		staffID = strings.TrimSpace(*req.StaffID)
	}

	if err := s.users.UpdateProfile(ctx, user.ID, fullName, staffID); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.getUser(ctx, user.ID)
}

func (s *AuthService) ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error {
	caller, err := currentUser(ctx)
	if err != nil {
		return err
	}
	user, err := s.load(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// ListUsers returns every account. Admin only.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.UserDTO, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

// UpdateUserRole changes another account's role. Admin only; admins cannot
// demote themselves.
func (s *AuthService) UpdateUserRole(ctx context.Context, id uuid.UUID, role domain.UserRoleType) (*domain.UserDTO, error) {
	caller, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if id == caller.UserID && role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admins cannot demote themselves", ErrInvalidInput)
	}

	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.Info("user role changed",
		zap.String("user_id", id.String()),
		zap.String("role", string(role)),
		zap.String("changed_by", caller.UserID.String()))
	return s.getUser(ctx, id)
}

func (s *AuthService) issue(user *domain.User) (*domain.AuthResponseDTO, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponseDTO{
		User:      mapper.ToUserDTO(user),
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *AuthService) getUser(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *AuthService) load(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
