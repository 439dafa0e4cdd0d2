package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateSubmission is returned when a booking with the same
// submission key already exists.  Callers treat this as "return the
// original booking", not as a failure.
var ErrDuplicateSubmission = errors.New("duplicate submission key")

// BookingRepo manages persistence for bookings.  The JSON columns
// (merchandise, add_on_ids, reschedule_history) are marshalled here so
// the rest of the application only sees typed slices.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, reservation_id, submission_key, show_slot_id, package_id, package_name, guests,
    customer_name, customer_email, customer_phone, customer_address,
    status, is_overbooking, capacity_held, total_price_cents, applied_promo_code, discount_cents,
    merchandise, add_on_ids, internal_admin_notes,
    cancellation_reason, cancelled_by, cancelled_at, reschedule_history, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var (
		b           model.Booking
		merch       sql.NullString
		addOns      sql.NullString
		notes       sql.NullString
		history     sql.NullString
		cancelledAt sql.NullTime
	)
	err := row.Scan(&b.ID, &b.ReservationID, &b.SubmissionKey, &b.ShowSlotID, &b.PackageID, &b.PackageName, &b.Guests,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.CustomerAddress,
		&b.Status, &b.IsOverbooking, &b.CapacityHeld, &b.TotalPriceCents, &b.AppliedPromoCode, &b.DiscountCents,
		&merch, &addOns, &notes, &b.CancellationReason, &b.CancelledBy, &cancelledAt, &history, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if merch.Valid && merch.String != "" {
		if err := json.Unmarshal([]byte(merch.String), &b.Merchandise); err != nil {
			return model.Booking{}, err
		}
	}
	if addOns.Valid && addOns.String != "" {
		if err := json.Unmarshal([]byte(addOns.String), &b.AddOnIDs); err != nil {
			return model.Booking{}, err
		}
	}
	if notes.Valid {
		b.InternalAdminNotes = notes.String
	}
	if history.Valid && history.String != "" {
		if err := json.Unmarshal([]byte(history.String), &b.RescheduleHistory); err != nil {
			return model.Booking{}, err
		}
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return b, nil
}

func bookingJSONColumns(b *model.Booking) (merch, addOns, history string, err error) {
	m, err := json.Marshal(b.Merchandise)
	if err != nil {
		return "", "", "", err
	}
	a, err := json.Marshal(b.AddOnIDs)
	if err != nil {
		return "", "", "", err
	}
	h, err := json.Marshal(b.RescheduleHistory)
	if err != nil {
		return "", "", "", err
	}
	return string(m), string(a), string(h), nil
}

// Create inserts a new booking and assigns the generated ID back to the
// struct.  A duplicate submission key yields ErrDuplicateSubmission.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	merch, addOns, history, err := bookingJSONColumns(b)
	if err != nil {
		return err
	}
	const q = `INSERT INTO bookings (reservation_id, submission_key, show_slot_id, package_id, package_name, guests,
               customer_name, customer_email, customer_phone, customer_address,
               status, is_overbooking, capacity_held, total_price_cents, applied_promo_code, discount_cents,
               merchandise, add_on_ids, internal_admin_notes, cancellation_reason, cancelled_by, cancelled_at, reschedule_history)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		b.ReservationID, b.SubmissionKey, b.ShowSlotID, b.PackageID, b.PackageName, b.Guests,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.CustomerAddress,
		b.Status, b.IsOverbooking, b.CapacityHeld, b.TotalPriceCents, b.AppliedPromoCode, b.DiscountCents,
		merch, addOns, b.InternalAdminNotes, b.CancellationReason, b.CancelledBy, nullableTime(b.CancelledAt), history)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSubmission
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// Update rewrites all mutable booking fields.  The orchestrator mutates
// a loaded Booking value and persists it with a single call, so every
// lifecycle transition is one UPDATE inside its transaction.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	merch, addOns, history, err := bookingJSONColumns(b)
	if err != nil {
		return err
	}
	const q = `UPDATE bookings SET show_slot_id = ?, package_id = ?, package_name = ?, guests = ?,
               customer_name = ?, customer_email = ?, customer_phone = ?, customer_address = ?,
               status = ?, is_overbooking = ?, capacity_held = ?, total_price_cents = ?,
               applied_promo_code = ?, discount_cents = ?, merchandise = ?, add_on_ids = ?,
               internal_admin_notes = ?, cancellation_reason = ?, cancelled_by = ?, cancelled_at = ?, reschedule_history = ?
               WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		b.ShowSlotID, b.PackageID, b.PackageName, b.Guests,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.CustomerAddress,
		b.Status, b.IsOverbooking, b.CapacityHeld, b.TotalPriceCents,
		b.AppliedPromoCode, b.DiscountCents, merch, addOns,
		b.InternalAdminNotes, b.CancellationReason, b.CancelledBy, nullableTime(b.CancelledAt), history,
		b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, b.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
	}
	return nil
}

// GetByID retrieves a booking by its primary key.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	return b, nil
}

// GetByIDForUpdate retrieves a booking and locks its row for the
// remainder of the ambient transaction.  Lifecycle transitions load the
// booking through this method so two admins acting on the same booking
// serialize instead of overwriting each other.
func (r *BookingRepo) GetByIDForUpdate(ctx context.Context, id uint64) (model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	return b, nil
}

// GetBySubmissionKey returns the booking created by an earlier submit
// with the same client key, or nil when the key is unseen.
func (r *BookingRepo) GetBySubmissionKey(ctx context.Context, key string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE submission_key = ?`
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, q, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// List returns bookings filtered by optional slot and status, newest
// first.  Zero/empty filter values mean "any".
func (r *BookingRepo) List(ctx context.Context, showSlotID uint64, status string) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := make([]interface{}, 0, 2)
	if showSlotID != 0 {
		q += ` AND show_slot_id = ?`
		args = append(args, showSlotID)
	}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GuestTotalsBySlot returns, per show slot, the summed guests of
// bookings currently holding capacity.  Used by the occupancy report to
// cross-check the denormalized counters.
func (r *BookingRepo) GuestTotalsBySlot(ctx context.Context) (map[uint64]int, error) {
	const q = `SELECT show_slot_id, COALESCE(SUM(guests), 0) FROM bookings WHERE capacity_held = 1 GROUP BY show_slot_id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	totals := map[uint64]int{}
	for rows.Next() {
		var (
			slotID uint64
			guests int
		)
		if err := rows.Scan(&slotID, &guests); err != nil {
			return nil, err
		}
		totals[slotID] = guests
	}
	return totals, rows.Err()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
