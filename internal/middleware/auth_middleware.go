package middleware

import (
	"context"
	"errors"
	"strings"

	autherrors "pharmacy-hr/internal/auth/errors"
	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/shared/apperror"
	"pharmacy-hr/internal/shared/contextutil"
	"pharmacy-hr/internal/shared/response"
	"pharmacy-hr/internal/shared/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

// PrincipalLookup reports the caller's current role and whether they may act.
// An unknown user is reported as inactive with a nil error.
type PrincipalLookup interface {
	CurrentPrincipal(ctx context.Context, userID string) (role string, active bool, err error)
}

// AuthMiddleware reads the access token from the Authorization header or the access_token cookie.
// Role and status come from the token claims alone.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return AuthMiddlewareWithLookup(secret, nil)
}

// AuthMiddlewareWithLookup also re-reads role and active status on every request, so a
// deactivated or demoted profile loses access before its access token expires.
func AuthMiddlewareWithLookup(secret string, lookup PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, apperror.New(apperror.CodeUnauthorized, "Token not found", autherrors.ErrInvalidToken.HTTPStatus))
			return
		}

		claims, err := token.Parse(secret, tokenString, token.KindAccess)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				abortWith(c, autherrors.ErrTokenExpired)
				return
			}
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		role := claims.Role
		if lookup != nil {
			current, active, err := lookup.CurrentPrincipal(c.Request.Context(), claims.UserID)
			if err != nil {
				contextutil.GetLogger(c.Request.Context(), nil).Error("auth principal lookup failed",
					zap.String("user_id", claims.UserID),
					zap.Error(err),
				)
				abortWith(c, apperror.ErrInternal)
				return
			}
			if !active {
				abortWith(c, autherrors.ErrProfileInactive)
				return
			}
			role = current
		}

		if !domain.Role(role).IsValid() {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", role)

		ctx := contextutil.WithUserID(c.Request.Context(), claims.UserID)
		ctx = contextutil.WithRole(ctx, role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := domain.Role(c.GetString("role"))
		for _, role := range allowedRoles {
			if userRole == role {
				c.Next()
				return
			}
		}
		abortWith(c, autherrors.ErrForbidden)
	}
}
