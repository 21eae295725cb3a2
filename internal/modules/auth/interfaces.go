package auth

import (
	"context"
	"time"

	"filevault/internal/domain"
	"filevault/internal/pkg/jwt"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	SetRefreshToken(ctx context.Context, userID int64, token *string) error
	GetByIDAndRefreshToken(ctx context.Context, userID int64, token string) (*domain.User, error)
	SetResetToken(ctx context.Context, userID int64, token *string) error
	GetByIDAndResetToken(ctx context.Context, userID int64, token string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type tokenService interface {
	GenerateToken(userID int64, email string, ttl time.Duration) (string, error)
	VerifyToken(token string) (*jwt.Claims, error)
}

type Mailer interface {
	SendPasswordReset(email, token string) error
}
