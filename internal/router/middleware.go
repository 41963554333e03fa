package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"devblog/internal/auth"
	"devblog/internal/errors"
	"devblog/internal/handler"
)

// RejectRevoked refuses refresh tokens and access tokens blacklisted at logout.
// A cache outage lets tokens through rather than locking everyone out.
func RejectRevoked(tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.CurrentClaims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !claims.IsAccess() {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "access token required",
					Code:  "INVALID_TOKEN_TYPE",
				})
			}
			if claims.ID != "" {
				revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
				if err == nil && revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
						Error: "token has been revoked",
						Code:  "TOKEN_REVOKED",
					})
				}
			}
			return next(c)
		}
	}
}

// RequireStaff limits a group to staff accounts.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := handler.CurrentClaims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !claims.IsStaff {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "staff access required",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
