package auth

import (
	"errors"
	"net/http"
	"time"

	"filevault/internal/middleware"
	"filevault/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessTokenCookie  = middleware.AccessTokenCookie
	refreshTokenCookie = "refreshToken"
)

// CookieConfig carries the attributes shared by both auth cookies. Max ages
// follow each token's TTL.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	service *Service
	cookies CookieConfig
}

func NewHandler(service *Service, cookies CookieConfig) *Handler {
	return &Handler{service: service, cookies: cookies}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, authRequired gin.HandlerFunc) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", authRequired, h.Me)
		authGroup.POST("/logout", authRequired, h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields are required")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.BadRequest(c, "All fields are required")
		case errors.Is(err, ErrInvalidEmail):
			response.BadRequest(c, "Invalid email format")
		case errors.Is(err, ErrInvalidPhone):
			response.BadRequest(c, "Invalid phone number format")
		case errors.Is(err, ErrPasswordTooShort):
			response.BadRequest(c, "Password must be at least 8 characters long")
		case errors.Is(err, ErrDuplicateUser):
			response.BadRequest(c, "User with this email or phone already exists")
		default:
			h.internalError(c, "register", err)
		}
		return
	}

	response.Success(c, "User registered successfully", toUserResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.BadRequest(c, "Email and password are required")
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(c, "Invalid credentials")
		default:
			h.internalError(c, "login", err)
		}
		return
	}

	h.setCookie(c, accessTokenCookie, result.AccessToken, h.cookies.AccessTTL)
	h.setCookie(c, refreshTokenCookie, result.RefreshToken, h.cookies.RefreshTTL)

	response.Success(c, "Login successful", toUserResponse(result.User))
}

func (h *Handler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Access token is required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), user.ID); err != nil {
		h.internalError(c, "logout", err)
		return
	}

	h.clearCookie(c, accessTokenCookie)
	h.clearCookie(c, refreshTokenCookie)

	response.Success(c, "Logout successful", nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		response.Unauthorized(c, "Refresh token is required")
		return
	}

	accessToken, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefresh) {
			response.Unauthorized(c, "Invalid refresh token")
			return
		}
		h.internalError(c, "refresh", err)
		return
	}

	h.setCookie(c, accessTokenCookie, accessToken, h.cookies.AccessTTL)

	response.Success(c, "Token refreshed successfully", nil)
}

// ForgotPassword answers with the same message whether or not the account
// exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		response.BadRequest(c, "Email is required")
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.internalError(c, "forgot-password", err)
		return
	}

	response.Success(c, "If an account exists, a password reset email will be sent", nil)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Token and new password are required")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.BadRequest(c, "Token and new password are required")
		case errors.Is(err, ErrPasswordTooShort):
			response.BadRequest(c, "Password must be at least 8 characters long")
		case errors.Is(err, ErrInvalidReset):
			response.Unauthorized(c, "Invalid or expired reset token")
		default:
			h.internalError(c, "reset-password", err)
		}
		return
	}

	response.Success(c, "Password reset successful", nil)
}

func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Access token is required")
		return
	}

	response.Success(c, "User information retrieved successfully", toUserResponse(user))
}

func (h *Handler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", h.cookies.Secure, true)
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	zap.L().Error("auth "+op+" failed", zap.Error(err))
	response.InternalError(c, "")
}
