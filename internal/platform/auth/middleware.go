package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ActiveUserChecker reports whether the account behind a verified token is
// still in good standing. Soft-deleted and unverified accounts hold valid
// tokens until expiry, so the middleware re-checks on every request.
type ActiveUserChecker interface {
	IsActiveUser(ctx context.Context, userID int64) (bool, error)
}

// RequireUser verifies the bearer token and the account's standing before
// letting a request through. A missing or invalid token yields 401; a token
// for a deactivated or deleted account yields 403.
func RequireUser(issuer *TokenIssuer, users ActiveUserChecker, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			active, err := users.IsActiveUser(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to verify account")
			}
			if !active {
				return echo.NewHTTPError(http.StatusForbidden, "not authorized")
			}

			ctx := WithIdentity(c.Request().Context(), Identity{
				UserID:  claims.UserID,
				TokenID: claims.ID,
			})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
