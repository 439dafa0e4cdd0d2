package repository

import (
	"context"
	"database/sql"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// Store bundles the repositories the booking orchestrator needs behind
// one value and exposes them under the method names of booking.Store.
// Every method is transaction-aware through the context, so the
// orchestrator can compose them inside a single WithTx block.
type Store struct {
	db          *sql.DB
	Slots       *ShowSlotRepo
	Bookings    *BookingRepo
	Packages    *PackageRepo
	Merchandise *MerchandiseRepo
	Promos      *PromoCodeRepo
	Customers   *CustomerRepo
	Waiting     *WaitingListRepo
	Audit       *AuditRepo
	Invoices    *InvoiceRepo
	Settings    *SettingsRepo
}

// NewStore constructs a Store over a shared DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		Slots:       NewShowSlotRepo(db),
		Bookings:    NewBookingRepo(db),
		Packages:    NewPackageRepo(db),
		Merchandise: NewMerchandiseRepo(db),
		Promos:      NewPromoCodeRepo(db),
		Customers:   NewCustomerRepo(db),
		Waiting:     NewWaitingListRepo(db),
		Audit:       NewAuditRepo(db),
		Invoices:    NewInvoiceRepo(db),
		Settings:    NewSettingsRepo(db),
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, s.db, fn)
}

func (s *Store) ShowSlotForUpdate(ctx context.Context, id uint64) (model.ShowSlot, error) {
	return s.Slots.GetByIDForUpdate(ctx, id)
}

func (s *Store) AdjustBookedCount(ctx context.Context, slotID uint64, delta int) error {
	return s.Slots.AdjustBookedCount(ctx, slotID, delta)
}

func (s *Store) PackageByID(ctx context.Context, id uint64) (model.PackageOption, error) {
	return s.Packages.GetByID(ctx, id)
}

func (s *Store) MerchandiseByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MerchandiseItem, error) {
	return s.Merchandise.GetByIDs(ctx, ids)
}

func (s *Store) PromoByCodeForUpdate(ctx context.Context, code string) (model.PromoCode, error) {
	return s.Promos.GetByCodeForUpdate(ctx, code)
}

func (s *Store) IncrementPromoUsage(ctx context.Context, id uint64) error {
	return s.Promos.IncrementUsage(ctx, id)
}

func (s *Store) BookingForUpdate(ctx context.Context, id uint64) (model.Booking, error) {
	return s.Bookings.GetByIDForUpdate(ctx, id)
}

func (s *Store) BookingBySubmissionKey(ctx context.Context, key string) (*model.Booking, error) {
	return s.Bookings.GetBySubmissionKey(ctx, key)
}

func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	return s.Bookings.Create(ctx, b)
}

func (s *Store) UpdateBooking(ctx context.Context, b *model.Booking) error {
	return s.Bookings.Update(ctx, b)
}

func (s *Store) UpsertCustomer(ctx context.Context, c *model.Customer) error {
	return s.Customers.UpsertByEmail(ctx, c)
}

func (s *Store) WaitingEntryForUpdate(ctx context.Context, id uint64) (model.WaitingListEntry, error) {
	return s.Waiting.GetByIDForUpdate(ctx, id)
}

func (s *Store) CreateWaitingEntry(ctx context.Context, e *model.WaitingListEntry) error {
	return s.Waiting.Create(ctx, e)
}

func (s *Store) SetWaitingEntryStatus(ctx context.Context, id uint64, status string) error {
	return s.Waiting.UpdateStatus(ctx, id, status)
}

func (s *Store) AppendAudit(ctx context.Context, e model.AuditLogEntry) error {
	return s.Audit.Append(ctx, e)
}

func (s *Store) BookingByID(ctx context.Context, id uint64) (model.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

func (s *Store) InvoiceByID(ctx context.Context, id uint64) (model.Invoice, error) {
	return s.Invoices.GetByID(ctx, id)
}

func (s *Store) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	return s.Invoices.Create(ctx, inv)
}

func (s *Store) SetInvoiceStatus(ctx context.Context, id uint64, status string) error {
	return s.Invoices.UpdateStatus(ctx, id, status)
}

func (s *Store) AppSettings(ctx context.Context) (model.AppSettings, error) {
	return s.Settings.Get(ctx)
}

func (s *Store) NextInvoiceNumber(ctx context.Context) (string, error) {
	return s.Settings.NextInvoiceNumber(ctx)
}
