package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/avelor/dinner-show-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/avelor/dinner-show-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth;
// logout requires a valid access token because it revokes sessions for the
// calling staff member.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (login, refresh).  There is no public
	// registration endpoint: staff accounts are created by an administrator.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle staff login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh.
	// This rotates the refresh token.
	g.POST("/refresh", a.Refresh)

	// Logout revokes either a specific refresh token or every session of the
	// authenticated staff member, so it runs behind the JWT middleware.
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))
}
