package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrWaitingEntryNotFound indicates that a waiting-list entry was not
// located in the DB.
var ErrWaitingEntryNotFound = errors.New("waiting list entry not found")

// WaitingListRepo manages persistence for waiting_list.
type WaitingListRepo struct {
	db *sql.DB
}

func NewWaitingListRepo(db *sql.DB) *WaitingListRepo { return &WaitingListRepo{db: db} }

const waitingColumns = `id, show_slot_id, name, email, phone, guests, status, notes, created_at, updated_at`

func scanWaitingEntry(row interface{ Scan(...interface{}) error }) (model.WaitingListEntry, error) {
	var (
		e     model.WaitingListEntry
		notes sql.NullString
	)
	err := row.Scan(&e.ID, &e.ShowSlotID, &e.Name, &e.Email, &e.Phone, &e.Guests, &e.Status, &notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.WaitingListEntry{}, err
	}
	e.Notes = notes.String
	return e, nil
}

func (r *WaitingListRepo) Create(ctx context.Context, e *model.WaitingListEntry) error {
	if e.Status == "" {
		e.Status = model.WaitingStatusPending
	}
	const q = `INSERT INTO waiting_list (show_slot_id, name, email, phone, guests, status, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, e.ShowSlotID, e.Name, e.Email, e.Phone, e.Guests, e.Status, e.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

func (r *WaitingListRepo) GetByID(ctx context.Context, id uint64) (model.WaitingListEntry, error) {
	const q = `SELECT ` + waitingColumns + ` FROM waiting_list WHERE id = ?`
	e, err := scanWaitingEntry(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.WaitingListEntry{}, ErrWaitingEntryNotFound
		}
		return model.WaitingListEntry{}, err
	}
	return e, nil
}

// GetByIDForUpdate locks the entry row for the ambient transaction so a
// book-from-waitlist conversion cannot run twice for the same entry.
func (r *WaitingListRepo) GetByIDForUpdate(ctx context.Context, id uint64) (model.WaitingListEntry, error) {
	const q = `SELECT ` + waitingColumns + ` FROM waiting_list WHERE id = ? FOR UPDATE`
	e, err := scanWaitingEntry(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.WaitingListEntry{}, ErrWaitingEntryNotFound
		}
		return model.WaitingListEntry{}, err
	}
	return e, nil
}

// ListBySlot returns entries for a slot, oldest first (queue order).
// Pass an empty status to list all.
func (r *WaitingListRepo) ListBySlot(ctx context.Context, showSlotID uint64, status string) ([]model.WaitingListEntry, error) {
	q := `SELECT ` + waitingColumns + ` FROM waiting_list WHERE show_slot_id = ?`
	args := []interface{}{showSlotID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at ASC, id ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.WaitingListEntry{}
	for rows.Next() {
		e, err := scanWaitingEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *WaitingListRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE waiting_list SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM waiting_list WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWaitingEntryNotFound
			}
			return err
		}
	}
	return nil
}
