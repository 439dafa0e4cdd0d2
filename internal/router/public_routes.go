package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/handler"
)

// RegisterPublic registers the guest-facing endpoints on the provided Echo
// instance.  These routes carry no JWT or role middleware; browsing routes
// take the shared response cache and every mutating route takes the rate
// limiter so anonymous traffic cannot hammer the booking pipeline.  Either
// middleware may be nil when Redis is unavailable, in which case the route is
// registered bare.
func RegisterPublic(e *echo.Echo, p *handler.PublicBrowseHandler, b *handler.PublicBookingHandler, cacheMW, rateMW echo.MiddlewareFunc) {
	// Browse endpoints return sanitized data only: show availability is
	// exposed as remaining seats, never as raw counters.
	e.GET("/v1/shows", p.ListShows, filter(cacheMW)...)
	e.GET("/v1/packages", p.ListPackages, filter(cacheMW)...)
	e.GET("/v1/merchandise", p.ListMerchandise, filter(cacheMW)...)

	// Promo validation previews a discount without consuming a use.
	e.POST("/v1/promo/validate", p.ValidatePromo, filter(rateMW)...)
	// Guests can join the waiting list for a show slot directly.
	e.POST("/v1/waitlist", p.JoinWaitlist, filter(rateMW)...)
	// Booking submission is the core guest operation.  Replays with the same
	// submission key return the original booking instead of a duplicate.
	e.POST("/v1/bookings", b.Submit, filter(rateMW)...)
}

// filter drops nil middleware so optional features degrade to a plain route.
func filter(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
