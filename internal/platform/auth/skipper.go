package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that bypass authentication. These are
// infrastructure endpoints and the auth endpoints themselves, which must be
// reachable without a bearer token.
var publicPaths = map[string]bool{
	"/health":         true,
	"/health/db":      true,
	"/metrics":        true,
	"/auth/register":  true,
	"/auth/verify":    true,
	"/auth/login":     true,
	"/auth/federated": true,
}

// Skipper returns true for requests whose path should skip authentication.
func Skipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given path is a public endpoint that
// bypasses the bearer middleware.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
