package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that bypass authentication. These are
// infrastructure endpoints that load balancers and orchestrators hit
// without credentials.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
}

// AuthSkipper returns true for requests whose path should skip
// authentication. It reads the raw URL path rather than the matched route so
// requests for unregistered paths still go through auth.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Request().URL.Path)
}

// IsPublicPath reports whether the given path is a public infrastructure
// endpoint that should bypass auth middleware.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
