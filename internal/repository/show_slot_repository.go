// Package repository contains data access logic for the dinner-show
// domain.  This file defines persistence for show slots.  A show slot
// is one bookable performance occurrence; its booked_count column is the
// single shared counter of the system and is only ever adjusted through
// AdjustBookedCount inside a transaction carried by the context.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrShowSlotNotFound indicates that a show slot was not located in the DB.
var ErrShowSlotNotFound = errors.New("show slot not found")

// ShowSlotRepo manages persistence for show_slots.
type ShowSlotRepo struct {
	db *sql.DB
}

// NewShowSlotRepo constructs a ShowSlotRepo with the given DB handle.
func NewShowSlotRepo(db *sql.DB) *ShowSlotRepo {
	return &ShowSlotRepo{db: db}
}

const showSlotColumns = `id, show_date, show_time, capacity, booked_count, is_manually_closed, price_tier, package_ids, created_at, updated_at`

func scanShowSlot(row interface{ Scan(...interface{}) error }) (model.ShowSlot, error) {
	var (
		s          model.ShowSlot
		packageIDs sql.NullString
	)
	err := row.Scan(&s.ID, &s.ShowDate, &s.ShowTime, &s.Capacity, &s.BookedCount,
		&s.IsManuallyClosed, &s.PriceTier, &packageIDs, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.ShowSlot{}, err
	}
	if packageIDs.Valid && packageIDs.String != "" {
		if err := json.Unmarshal([]byte(packageIDs.String), &s.PackageIDs); err != nil {
			return model.ShowSlot{}, err
		}
	}
	return s, nil
}

// Create inserts a new show slot and assigns the generated ID back to
// the struct.  A duplicate date/time pair yields ErrDuplicateSlot.
func (r *ShowSlotRepo) Create(ctx context.Context, s *model.ShowSlot) error {
	ids, err := json.Marshal(s.PackageIDs)
	if err != nil {
		return err
	}
	const q = `INSERT INTO show_slots (show_date, show_time, capacity, booked_count, is_manually_closed, price_tier, package_ids)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		s.ShowDate, s.ShowTime, s.Capacity, s.BookedCount, s.IsManuallyClosed, s.PriceTier, string(ids))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSlot
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a show slot by its ID.  It returns
// ErrShowSlotNotFound if there is no matching row.
func (r *ShowSlotRepo) GetByID(ctx context.Context, id uint64) (model.ShowSlot, error) {
	const q = `SELECT ` + showSlotColumns + ` FROM show_slots WHERE id = ?`
	s, err := scanShowSlot(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ShowSlot{}, ErrShowSlotNotFound
		}
		return model.ShowSlot{}, err
	}
	return s, nil
}

// GetByIDForUpdate retrieves a show slot and locks its row for the
// remainder of the ambient transaction.  All capacity decisions read
// the slot through this method so concurrent submissions serialize on
// the row instead of racing on a stale booked_count.
func (r *ShowSlotRepo) GetByIDForUpdate(ctx context.Context, id uint64) (model.ShowSlot, error) {
	const q = `SELECT ` + showSlotColumns + ` FROM show_slots WHERE id = ? FOR UPDATE`
	s, err := scanShowSlot(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ShowSlot{}, ErrShowSlotNotFound
		}
		return model.ShowSlot{}, err
	}
	return s, nil
}

// AdjustBookedCount changes a slot's booked_count by delta.  Negative
// deltas floor at zero so a release can never drive the counter below
// what the data allows.  Callers must hold the row lock via
// GetByIDForUpdate in the same transaction.
func (r *ShowSlotRepo) AdjustBookedCount(ctx context.Context, id uint64, delta int) error {
	const q = `UPDATE show_slots SET booked_count = GREATEST(0, booked_count + ?) WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, delta, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// update (e.g. decrementing an already-zero counter), so
		// re-check existence before reporting not found.
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM show_slots WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowSlotNotFound
			}
			return err
		}
	}
	return nil
}

// ListUpcoming returns all slots on or after the given date ("2006-01-02"),
// ordered by date then time.  When no slots exist it returns an empty
// slice and nil error.
func (r *ShowSlotRepo) ListUpcoming(ctx context.Context, fromDate string) ([]model.ShowSlot, error) {
	const q = `SELECT ` + showSlotColumns + ` FROM show_slots WHERE show_date >= ? ORDER BY show_date ASC, show_time ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.ShowSlot{}
	for rows.Next() {
		s, err := scanShowSlot(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites a slot's editable attributes (date, time, capacity,
// closed flag, tier, packages).  booked_count is deliberately excluded;
// it only moves through AdjustBookedCount.
func (r *ShowSlotRepo) Update(ctx context.Context, s *model.ShowSlot) error {
	ids, err := json.Marshal(s.PackageIDs)
	if err != nil {
		return err
	}
	const q = `UPDATE show_slots
               SET show_date = ?, show_time = ?, capacity = ?, is_manually_closed = ?, price_tier = ?, package_ids = ?
               WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		s.ShowDate, s.ShowTime, s.Capacity, s.IsManuallyClosed, s.PriceTier, string(ids), s.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSlot
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM show_slots WHERE id = ?`, s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowSlotNotFound
			}
			return err
		}
	}
	return nil
}

// SetClosed flips the manual-close switch on a slot.
func (r *ShowSlotRepo) SetClosed(ctx context.Context, id uint64, closed bool) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE show_slots SET is_manually_closed = ? WHERE id = ?`, closed, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM show_slots WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowSlotNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a show slot.  The deletion runs in a transaction: when
// any booking for the slot is still in a live status the delete is
// aborted with ErrConflict, and dependent waiting-list entries are
// removed together with the slot.
func (r *ShowSlotRepo) Delete(ctx context.Context, id uint64) error {
	return WithTx(ctx, r.db, func(ctx context.Context) error {
		c := conn(ctx, r.db)
		var one int
		if err := c.QueryRowContext(ctx, `SELECT 1 FROM show_slots WHERE id = ? FOR UPDATE`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowSlotNotFound
			}
			return err
		}
		var live int
		const qLive = `SELECT COUNT(*) FROM bookings WHERE show_slot_id = ? AND status IN (?, ?)`
		if err := c.QueryRowContext(ctx, qLive, id,
			model.BookingStatusPendingApproval, model.BookingStatusConfirmed).Scan(&live); err != nil {
			return err
		}
		if live > 0 {
			return ErrConflict
		}
		if _, err := c.ExecContext(ctx, `DELETE FROM waiting_list WHERE show_slot_id = ?`, id); err != nil {
			return err
		}
		_, err := c.ExecContext(ctx, `DELETE FROM show_slots WHERE id = ?`, id)
		return err
	})
}
