package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"filevault/internal/domain"
	"filevault/internal/pkg/validator"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds the auth business logic. Token state lives on the user row:
// the stored refresh token is the one currently valid, the stored reset
// token the one a forgot-password request produced.
type Service struct {
	users      UserRepository
	tokens     tokenService
	mailer     Mailer
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewService(
	users UserRepository,
	tokens tokenService,
	mailer Mailer,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	resetTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		mailer:     mailer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if validator.Struct(req) != nil {
		return nil, ErrMissingFields
	}
	if !validator.IsEmail(req.Email) {
		return nil, ErrInvalidEmail
	}
	if !validator.IsPhone(req.Phone) {
		return nil, ErrInvalidPhone
	}
	if !validator.IsPassword(req.Password) {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		PasswordHash: string(hash),
		Phone:        req.Phone,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// the pre-check can lose a race; the unique index settles it
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues the token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if validator.Struct(req) != nil {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateToken(user.ID, user.Email, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateToken(user.ID, "", s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes the stored refresh token; the old token stops matching on
// the next refresh attempt.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.users.SetRefreshToken(ctx, userID, nil)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated. The lookup matches the decoded id
// AND the stored token, so a token revoked by logout is rejected even while
// its signature is still valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefresh
	}

	user, err := s.users.GetByIDAndRefreshToken(ctx, claims.UserID, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}

	return s.tokens.GenerateToken(user.ID, user.Email, s.accessTTL)
}

// RequestPasswordReset stores a fresh reset token and hands it to the
// mailer. A missing account is not an error: the handler answers with the
// same generic message either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	resetToken, err := s.tokens.GenerateToken(user.ID, "", s.resetTTL)
	if err != nil {
		return err
	}

	if err := s.users.SetResetToken(ctx, user.ID, &resetToken); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, resetToken); err != nil {
		// delivery failure must not reveal anything to the caller
		zap.L().Error("password reset delivery failed", zap.Error(err))
	}

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if validator.Struct(req) != nil {
		return ErrMissingFields
	}
	if !validator.IsPassword(req.NewPassword) {
		return ErrPasswordTooShort
	}

	claims, err := s.tokens.VerifyToken(req.Token)
	if err != nil {
		return ErrInvalidReset
	}

	user, err := s.users.GetByIDAndResetToken(ctx, claims.UserID, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidReset
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// clears the reset token in the same update
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
