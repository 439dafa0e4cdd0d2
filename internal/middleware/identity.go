package middleware

// identity.go holds helpers shared across middleware files.  staffID pulls
// the authenticated staff identifier that JWTAuth stored in the Echo
// context; rate limit keys use it so each staff account gets its own
// bucket while anonymous guests share one.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// staffID returns the staff identifier from context, or "guest" when the
// request is unauthenticated.  JWT number claims decode as float64, so
// both representations are handled.
func staffID(c echo.Context) string {
	v := c.Get("staff_id")
	if v == nil {
		return "guest"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	}
	return "guest"
}
