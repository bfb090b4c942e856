package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nydiokar/analyzer-sub009/internal/errors"
	"github.com/nydiokar/analyzer-sub009/internal/handlers"
	"github.com/nydiokar/analyzer-sub009/internal/models"
	"github.com/nydiokar/analyzer-sub009/internal/services"
)

// Context keys set by RequireOperator.
const (
	OperatorSubjectKey = handlers.OperatorSubjectContextKey
	OperatorRoleKey    = "operator_role"
	TokenJTIKey        = "token_jti"
)

// RequireOperator creates a middleware that requires a valid operator token
func RequireOperator(tokenService services.TokenServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handlers.SendError(c, apierrors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, apierrors.AuthInvalidTokenFormat)
			}

			claims, err := tokenService.ValidateOperatorToken(token)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrExpiredToken):
					return handlers.SendError(c, apierrors.AuthExpiredToken)
				case errors.Is(err, services.ErrInvalidRole):
					return handlers.SendError(c, apierrors.AuthInsufficientPermission)
				default:
					return handlers.SendError(c, apierrors.AuthInvalidTokenFormat)
				}
			}

			c.Set(OperatorSubjectKey, claims.Subject)
			c.Set(OperatorRoleKey, claims.Role)
			c.Set(TokenJTIKey, claims.ID)

			return next(c)
		}
	}
}

// RequireRole creates a middleware that requires a specific role
func RequireRole(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(OperatorRoleKey).(string)
			if !ok {
				return handlers.SendError(c, apierrors.AuthInvalidTokenFormat, apierrors.WithDetails("Operator role not found in token"))
			}

			for _, r := range requiredRoles {
				if role == r {
					return next(c)
				}
			}

			return handlers.SendError(c, apierrors.AuthInsufficientPermission)
		}
	}
}

// RequireAdmin is a convenience middleware that requires admin role
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
