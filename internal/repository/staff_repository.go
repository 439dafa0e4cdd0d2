package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/utils"
)

// ErrStaffNotFound indicates that a staff member was not located in the DB.
var ErrStaffNotFound = errors.New("staff member not found")

// StaffRepo manages the 'staff' table backing back-office accounts.
type StaffRepo struct{ DB *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

// Create inserts a staff member and returns its ID.
func (r *StaffRepo) Create(ctx context.Context, email, fullName, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO staff (email, full_name, password_hash, role) VALUES (?,?,?,?)",
		email, fullName, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a staff member by normalized email.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (model.StaffMember, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var s model.StaffMember
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,password_hash,role,is_active,created_at,updated_at FROM staff WHERE email=? LIMIT 1",
		email).Scan(&s.ID, &s.Email, &s.FullName, &s.PasswordHash, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetByID fetches a staff member by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (model.StaffMember, error) {
	var s model.StaffMember
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,full_name,password_hash,role,is_active,created_at,updated_at FROM staff WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Email, &s.FullName, &s.PasswordHash, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List returns all staff members ordered by name.
func (r *StaffRepo) List(ctx context.Context) ([]model.StaffMember, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,full_name,password_hash,role,is_active,created_at,updated_at FROM staff ORDER BY full_name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.StaffMember{}
	for rows.Next() {
		var s model.StaffMember
		if err := rows.Scan(&s.ID, &s.Email, &s.FullName, &s.PasswordHash, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SetActive enables or disables an account.  Disabled accounts fail
// login but keep their audit history.
func (r *StaffRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE staff SET is_active=? WHERE id=?", active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM staff WHERE id=?", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrStaffNotFound
			}
			return err
		}
	}
	return nil
}
