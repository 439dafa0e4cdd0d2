package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrMerchandiseNotFound indicates that a merchandise item was not
// located in the DB.
var ErrMerchandiseNotFound = errors.New("merchandise item not found")

// MerchandiseRepo manages persistence for merchandise.
type MerchandiseRepo struct {
	db *sql.DB
}

func NewMerchandiseRepo(db *sql.DB) *MerchandiseRepo { return &MerchandiseRepo{db: db} }

const merchandiseColumns = `id, name, description, price_cents, is_active, created_at, updated_at`

func scanMerchandise(row interface{ Scan(...interface{}) error }) (model.MerchandiseItem, error) {
	var (
		m    model.MerchandiseItem
		desc sql.NullString
	)
	err := row.Scan(&m.ID, &m.Name, &desc, &m.PriceCents, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.MerchandiseItem{}, err
	}
	m.Description = desc.String
	return m, nil
}

func (r *MerchandiseRepo) Create(ctx context.Context, m *model.MerchandiseItem) error {
	const q = `INSERT INTO merchandise (name, description, price_cents, is_active) VALUES (?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, m.Name, m.Description, m.PriceCents, m.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

func (r *MerchandiseRepo) GetByID(ctx context.Context, id uint64) (model.MerchandiseItem, error) {
	const q = `SELECT ` + merchandiseColumns + ` FROM merchandise WHERE id = ?`
	m, err := scanMerchandise(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MerchandiseItem{}, ErrMerchandiseNotFound
		}
		return model.MerchandiseItem{}, err
	}
	return m, nil
}

// GetByIDs returns the requested active items keyed by id.  Missing or
// inactive ids are simply absent from the map; callers decide whether
// that is an error.
func (r *MerchandiseRepo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MerchandiseItem, error) {
	result := map[uint64]model.MerchandiseItem{}
	if len(ids) == 0 {
		return result, nil
	}
	q := `SELECT ` + merchandiseColumns + ` FROM merchandise WHERE is_active = 1 AND id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += ")"
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanMerchandise(rows)
		if err != nil {
			return nil, err
		}
		result[m.ID] = m
	}
	return result, rows.Err()
}

func (r *MerchandiseRepo) List(ctx context.Context, activeOnly bool) ([]model.MerchandiseItem, error) {
	q := `SELECT ` + merchandiseColumns + ` FROM merchandise`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY name ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.MerchandiseItem{}
	for rows.Next() {
		m, err := scanMerchandise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *MerchandiseRepo) Update(ctx context.Context, m *model.MerchandiseItem) error {
	const q = `UPDATE merchandise SET name = ?, description = ?, price_cents = ?, is_active = ? WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, m.Name, m.Description, m.PriceCents, m.IsActive, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM merchandise WHERE id = ?`, m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMerchandiseNotFound
			}
			return err
		}
	}
	return nil
}

// Delete deactivates an item; booking merchandise lines keep their
// denormalized copy of the name and price.
func (r *MerchandiseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE merchandise SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM merchandise WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMerchandiseNotFound
			}
			return err
		}
	}
	return nil
}
