package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrShiftNotFound indicates that a scheduled shift was not located in
// the DB.
var ErrShiftNotFound = errors.New("scheduled shift not found")

// ShiftRepo manages persistence for scheduled_shifts.
type ShiftRepo struct {
	db *sql.DB
}

func NewShiftRepo(db *sql.DB) *ShiftRepo { return &ShiftRepo{db: db} }

const shiftColumns = `id, staff_id, shift_date, starts_at, ends_at, duty, notes, created_at, updated_at`

func scanShift(row interface{ Scan(...interface{}) error }) (model.ScheduledShift, error) {
	var (
		s     model.ScheduledShift
		notes sql.NullString
	)
	err := row.Scan(&s.ID, &s.StaffID, &s.ShiftDate, &s.StartsAt, &s.EndsAt, &s.Duty, &notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.ScheduledShift{}, err
	}
	s.Notes = notes.String
	return s, nil
}

func (r *ShiftRepo) Create(ctx context.Context, s *model.ScheduledShift) error {
	const q = `INSERT INTO scheduled_shifts (staff_id, shift_date, starts_at, ends_at, duty, notes)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, s.StaffID, s.ShiftDate, s.StartsAt, s.EndsAt, s.Duty, s.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

func (r *ShiftRepo) GetByID(ctx context.Context, id uint64) (model.ScheduledShift, error) {
	const q = `SELECT ` + shiftColumns + ` FROM scheduled_shifts WHERE id = ?`
	s, err := scanShift(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScheduledShift{}, ErrShiftNotFound
		}
		return model.ScheduledShift{}, err
	}
	return s, nil
}

// ListByDateRange returns shifts in [from, to] ordered by date and
// start time.  Dates use "2006-01-02".
func (r *ShiftRepo) ListByDateRange(ctx context.Context, from, to string) ([]model.ScheduledShift, error) {
	const q = `SELECT ` + shiftColumns + ` FROM scheduled_shifts WHERE shift_date BETWEEN ? AND ?
               ORDER BY shift_date ASC, starts_at ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.ScheduledShift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *ShiftRepo) Update(ctx context.Context, s *model.ScheduledShift) error {
	const q = `UPDATE scheduled_shifts SET staff_id = ?, shift_date = ?, starts_at = ?, ends_at = ?, duty = ?, notes = ?
               WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, s.StaffID, s.ShiftDate, s.StartsAt, s.EndsAt, s.Duty, s.Notes, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM scheduled_shifts WHERE id = ?`, s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShiftNotFound
			}
			return err
		}
	}
	return nil
}

func (r *ShiftRepo) Delete(ctx context.Context, id uint64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM scheduled_shifts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShiftNotFound
	}
	return nil
}
