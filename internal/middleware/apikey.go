package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"crypto/subtle" // subtle provides constant-time comparison for the shared secret
	"net/http"      // HTTP status codes for responses

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers
)

// APIKeyHeader is the request header carrying the pre-shared key.
const APIKeyHeader = "X-API-Key"

// APIKeyAuth returns an Echo middleware that checks the X-API-Key header
// against the configured shared secret.  The secret is injected here at
// startup rather than read from a package-level variable so tests can run
// the router with a different key per test case.  A missing or incorrect
// key is rejected with 403 before any handler logic runs.
func APIKeyAuth(secret string) echo.MiddlewareFunc {
	// The outer function returns a middleware function.  Echo executes this
	// once when registering the middleware.
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		// The returned handler is invoked for each incoming HTTP request.
		return func(c echo.Context) error {
			// Read the API key header.  Comparison is constant time so the
			// check does not leak how much of the key matched.
			got := c.Request().Header.Get(APIKeyHeader)
			if got == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "missing api key"})
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid api key"})
			}
			// Call the next handler in the chain and return its result.
			return next(c)
		}
	}
}
