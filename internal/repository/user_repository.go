package repository

import (
	"context"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. A taken email yields ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// GetByEmail looks a user up by email, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// List returns all users ordered by name
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&users).Error
	return users, err
}

// UpdateProfile writes the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, staffID string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"full_name":  fullName,
		"staff_id":   staffID,
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRoleType) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"role":       role,
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"last_login_at": at,
	})
}

func (r *UserRepository) updateColumns(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
