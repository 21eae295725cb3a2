package middleware

import (
	"context"
	"errors"

	"filevault/internal/domain"
	"filevault/internal/pkg/jwt"
	"filevault/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccessTokenCookie is the cookie the auth middleware reads.
const AccessTokenCookie = "accessToken"

type userReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth guards protected routes: it verifies the accessToken cookie, loads
// the user and attaches it to the request context. Token or user problems
// are a 401; anything unexpected from the store is a 500, not swallowed.
func Auth(jwtSvc *jwt.Service, users userReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			response.Unauthorized(c, "Access token is required")
			c.Abort()
			return
		}

		claims, err := jwtSvc.VerifyToken(token)
		if err != nil {
			response.Unauthorized(c, "Invalid access token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Unauthorized(c, "User not found")
			} else {
				zap.L().Error("auth middleware user lookup failed", zap.Error(err))
				response.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// CurrentUser pulls the user attached by Auth out of the gin context.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
