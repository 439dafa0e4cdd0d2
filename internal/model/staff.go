package model

import "time"

// Staff roles.  ADMIN may perform every back-office operation; STAFF is
// restricted to read endpoints and day-to-day booking actions.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// StaffMember mirrors the 'staff' table.
type StaffMember struct {
	ID           uint64
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScheduledShift is one planned working period for a staff member,
// typically attached to a show date.
type ScheduledShift struct {
	ID        uint64    // scheduled_shifts.id
	StaffID   uint64    // scheduled_shifts.staff_id
	ShiftDate string    // scheduled_shifts.shift_date ("2006-01-02")
	StartsAt  string    // scheduled_shifts.starts_at ("15:04")
	EndsAt    string    // scheduled_shifts.ends_at ("15:04")
	Duty      string    // scheduled_shifts.duty (service, kitchen, stage, door)
	Notes     string    // scheduled_shifts.notes
	CreatedAt time.Time // scheduled_shifts.created_at
	UpdatedAt time.Time // scheduled_shifts.updated_at
}
