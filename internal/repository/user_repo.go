package repository

import (
	"context"
	"strings"

	"filevault/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// ExistsByEmailOrPhone backs the duplicate pre-check on registration. The
// unique indexes on email and phone remain the arbiter when two
// registrations race past this check.
func (r *UserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ? OR phone = ?", normalizeEmail(email), phone).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

// SetRefreshToken persists the current refresh token; nil revokes it.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

// GetByIDAndRefreshToken only matches when the presented token is the one
// currently stored, which rejects tokens revoked by logout.
func (r *UserRepository) GetByIDAndRefreshToken(ctx context.Context, userID int64, token string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("id = ? AND refresh_token = ?", userID, token).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID int64, token *string) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("reset_token", token).Error
}

func (r *UserRepository) GetByIDAndResetToken(ctx context.Context, userID int64, token string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("id = ? AND reset_token = ?", userID, token).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

// UpdatePassword stores the new hash and clears the reset token in one
// update so a consumed token cannot be replayed.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password":    passwordHash,
			"reset_token": nil,
		}).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
