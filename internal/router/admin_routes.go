package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/handler"
	"github.com/avelor/dinner-show-reservation/internal/middleware"
	"github.com/avelor/dinner-show-reservation/internal/model"
)

// AdminHandlers bundles every back-office handler so RegisterAdmin keeps a
// manageable signature.
type AdminHandlers struct {
	Bookings *handler.AdminBookingHandler
	Shows    *handler.AdminShowHandler
	Waitlist *handler.AdminWaitlistHandler
	Packages *handler.AdminPackageHandler
	Merch    *handler.AdminMerchandiseHandler
	Promos   *handler.AdminPromoHandler
	Invoices *handler.AdminInvoiceHandler
	Settings *handler.AdminSettingsHandler
	Staff    *handler.AdminStaffHandler
	Audit    *handler.AdminAuditHandler
}

// RegisterAdmin registers the back-office endpoints under /v1/admin.  Every
// route requires a valid access token.  Day-to-day operations accept both the
// ADMIN and STAFF roles; account management, application settings, catalog
// writes and credit notes are restricted to ADMIN.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleStaff),
	)

	// Booking lifecycle.  Approve resolves a pending overbooking, reject
	// declines it, and the rest move confirmed bookings around.
	g.GET("/bookings", h.Bookings.List)
	g.GET("/bookings/:id", h.Bookings.Get)
	g.POST("/bookings/:id/approve", h.Bookings.Approve)
	g.POST("/bookings/:id/reject", h.Bookings.Reject)
	g.POST("/bookings/:id/cancel", h.Bookings.Cancel)
	g.POST("/bookings/:id/waitlist", h.Bookings.MoveToWaitlist)
	g.POST("/bookings/:id/reschedule", h.Bookings.Reschedule)
	g.GET("/bookings/:id/qr", h.Bookings.QR)

	// Show slot planning.  Deleting a slot is destructive and therefore
	// admin-only; closing one is the everyday alternative.
	g.GET("/shows", h.Shows.List)
	g.POST("/shows", h.Shows.Create)
	g.POST("/shows/bulk", h.Shows.BulkCreate)
	g.PUT("/shows/:id", h.Shows.Update)
	g.POST("/shows/:id/close", h.Shows.SetClosed)
	g.GET("/shows/occupancy", h.Shows.Occupancy)

	// Waiting list management per show slot.
	g.GET("/waitlist", h.Waitlist.List)
	g.POST("/waitlist/:id/remove", h.Waitlist.Remove)
	g.POST("/waitlist/:id/book", h.Waitlist.Book)

	// Catalog reads are open to both roles so staff can answer guest
	// questions at the door.
	g.GET("/packages", h.Packages.List)
	g.GET("/merchandise", h.Merch.List)
	g.GET("/promos", h.Promos.List)

	// Invoicing: staff issue and progress invoices during normal operation.
	g.POST("/invoices", h.Invoices.Create)
	g.GET("/invoices", h.Invoices.List)
	g.GET("/invoices/:id", h.Invoices.Get)
	g.POST("/invoices/:id/transition", h.Invoices.Transition)

	g.GET("/settings", h.Settings.Get)
	g.GET("/shifts", h.Staff.ListShifts)

	// Everything below changes configuration or money and is restricted to
	// administrators.
	adm := g.Group("", middleware.RequireRole(model.RoleAdmin))

	adm.DELETE("/shows/:id", h.Shows.Delete)

	adm.POST("/packages", h.Packages.Create)
	adm.PUT("/packages/:id", h.Packages.Update)
	adm.DELETE("/packages/:id", h.Packages.Delete)

	adm.POST("/merchandise", h.Merch.Create)
	adm.PUT("/merchandise/:id", h.Merch.Update)
	adm.DELETE("/merchandise/:id", h.Merch.Delete)

	adm.POST("/promos", h.Promos.Create)
	adm.PUT("/promos/:id", h.Promos.Update)
	adm.DELETE("/promos/:id", h.Promos.Delete)

	// Credit notes reverse issued invoices.
	adm.POST("/invoices/:id/credit-note", h.Invoices.CreditNote)

	adm.PUT("/settings", h.Settings.Update)

	// Staff accounts and shift planning.
	adm.POST("/staff", h.Staff.Create)
	adm.GET("/staff", h.Staff.List)
	adm.POST("/staff/:id/active", h.Staff.SetActive)
	adm.POST("/shifts", h.Staff.CreateShift)
	adm.PUT("/shifts/:id", h.Staff.UpdateShift)
	adm.DELETE("/shifts/:id", h.Staff.DeleteShift)

	// Audit trail and customer directory.
	adm.GET("/audit", h.Audit.ListAudit)
	adm.GET("/customers", h.Audit.ListCustomers)
}
