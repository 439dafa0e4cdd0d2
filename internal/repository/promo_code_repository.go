package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrPromoCodeNotFound indicates that a promo code was not located in
// the DB.
var ErrPromoCodeNotFound = errors.New("promo code not found")

// PromoCodeRepo manages persistence for promo_codes.  Codes are stored
// upper-cased; lookups normalize the same way.
type PromoCodeRepo struct {
	db *sql.DB
}

func NewPromoCodeRepo(db *sql.DB) *PromoCodeRepo { return &PromoCodeRepo{db: db} }

const promoColumns = `id, code, type, value_cents, usage_limit, times_used, min_booking_cents, expiration_date, is_active, created_at, updated_at`

func scanPromo(row interface{ Scan(...interface{}) error }) (model.PromoCode, error) {
	var (
		p       model.PromoCode
		expires sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Code, &p.Type, &p.ValueCents, &p.UsageLimit, &p.TimesUsed,
		&p.MinBookingCents, &expires, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.PromoCode{}, err
	}
	if expires.Valid {
		t := expires.Time
		p.ExpirationDate = &t
	}
	return p, nil
}

func (r *PromoCodeRepo) Create(ctx context.Context, p *model.PromoCode) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	const q = `INSERT INTO promo_codes (code, type, value_cents, usage_limit, times_used, min_booking_cents, expiration_date, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		p.Code, p.Type, p.ValueCents, p.UsageLimit, p.TimesUsed, p.MinBookingCents, nullableTime(p.ExpirationDate), p.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByCode retrieves a promo code by its normalized code string.
func (r *PromoCodeRepo) GetByCode(ctx context.Context, code string) (model.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = ?`
	p, err := scanPromo(conn(ctx, r.db).QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PromoCode{}, ErrPromoCodeNotFound
		}
		return model.PromoCode{}, err
	}
	return p, nil
}

// GetByCodeForUpdate locks the promo row for the ambient transaction so
// the usage-limit check and the times_used increment act on the same
// value under concurrency.
func (r *PromoCodeRepo) GetByCodeForUpdate(ctx context.Context, code string) (model.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = ? FOR UPDATE`
	p, err := scanPromo(conn(ctx, r.db).QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PromoCode{}, ErrPromoCodeNotFound
		}
		return model.PromoCode{}, err
	}
	return p, nil
}

// IncrementUsage bumps times_used by one.  Called from the booking
// submission transaction whenever the code contributed a discount.
func (r *PromoCodeRepo) IncrementUsage(ctx context.Context, id uint64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE promo_codes SET times_used = times_used + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPromoCodeNotFound
	}
	return nil
}

func (r *PromoCodeRepo) List(ctx context.Context) ([]model.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY code ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.PromoCode{}
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *PromoCodeRepo) Update(ctx context.Context, p *model.PromoCode) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	const q = `UPDATE promo_codes SET code = ?, type = ?, value_cents = ?, usage_limit = ?, min_booking_cents = ?, expiration_date = ?, is_active = ?
               WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		p.Code, p.Type, p.ValueCents, p.UsageLimit, p.MinBookingCents, nullableTime(p.ExpirationDate), p.IsActive, p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM promo_codes WHERE id = ?`, p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPromoCodeNotFound
			}
			return err
		}
	}
	return nil
}

func (r *PromoCodeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM promo_codes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPromoCodeNotFound
	}
	return nil
}
