package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrPackageNotFound indicates that a package was not located in the DB.
var ErrPackageNotFound = errors.New("package not found")

// PackageRepo manages persistence for packages.  Price levels and
// add-ons live in JSON columns mirroring their document-store origin.
type PackageRepo struct {
	db *sql.DB
}

func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

const packageColumns = `id, name, description, price_cents, price_levels, add_ons, is_active, created_at, updated_at`

func scanPackage(row interface{ Scan(...interface{}) error }) (model.PackageOption, error) {
	var (
		p      model.PackageOption
		desc   sql.NullString
		levels sql.NullString
		addOns sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &desc, &p.PriceCents, &levels, &addOns, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.PackageOption{}, err
	}
	p.Description = desc.String
	if levels.Valid && levels.String != "" {
		if err := json.Unmarshal([]byte(levels.String), &p.PriceLevels); err != nil {
			return model.PackageOption{}, err
		}
	}
	if addOns.Valid && addOns.String != "" {
		if err := json.Unmarshal([]byte(addOns.String), &p.AddOns); err != nil {
			return model.PackageOption{}, err
		}
	}
	return p, nil
}

func (r *PackageRepo) Create(ctx context.Context, p *model.PackageOption) error {
	levels, err := json.Marshal(p.PriceLevels)
	if err != nil {
		return err
	}
	addOns, err := json.Marshal(p.AddOns)
	if err != nil {
		return err
	}
	const q = `INSERT INTO packages (name, description, price_cents, price_levels, add_ons, is_active)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, p.Name, p.Description, p.PriceCents, string(levels), string(addOns), p.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *PackageRepo) GetByID(ctx context.Context, id uint64) (model.PackageOption, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages WHERE id = ?`
	p, err := scanPackage(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PackageOption{}, ErrPackageNotFound
		}
		return model.PackageOption{}, err
	}
	return p, nil
}

// List returns packages, optionally restricted to active ones.
func (r *PackageRepo) List(ctx context.Context, activeOnly bool) ([]model.PackageOption, error) {
	q := `SELECT ` + packageColumns + ` FROM packages`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY name ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.PackageOption{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *PackageRepo) Update(ctx context.Context, p *model.PackageOption) error {
	levels, err := json.Marshal(p.PriceLevels)
	if err != nil {
		return err
	}
	addOns, err := json.Marshal(p.AddOns)
	if err != nil {
		return err
	}
	const q = `UPDATE packages SET name = ?, description = ?, price_cents = ?, price_levels = ?, add_ons = ?, is_active = ?
               WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, p.Name, p.Description, p.PriceCents, string(levels), string(addOns), p.IsActive, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM packages WHERE id = ?`, p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPackageNotFound
			}
			return err
		}
	}
	return nil
}

// Delete deactivates a package rather than removing it; historical
// bookings keep referencing the row.
func (r *PackageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE packages SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM packages WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPackageNotFound
			}
			return err
		}
	}
	return nil
}
