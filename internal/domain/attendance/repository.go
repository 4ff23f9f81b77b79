package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID parameter to prevent cross-company data access.
// Create relies on the (employee_id, date) unique key: a concurrent duplicate
// insert surfaces as ErrDuplicateDay rather than a second row.
type AttendanceRepository interface {
	// Create inserts a new attendance record
	Create(ctx context.Context, record Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for one employee-day, nil if none
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	// GetOpenRecord retrieves the open (clocked-in, not clocked-out) record
	// for the given employee-day
	GetOpenRecord(ctx context.Context, employeeID string, date time.Time, companyID string) (Attendance, error)

	// Update persists changes to an existing record
	Update(ctx context.Context, record Attendance) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)

	// ListRange retrieves all records in [from, to], optionally for one employee
	ListRange(ctx context.Context, companyID string, employeeID *string, from, to time.Time) ([]Attendance, error)

	// Delete removes a record
	Delete(ctx context.Context, id string, companyID string) error

	// CloseStaleOpenSessions fills clock_out with the scheduled day end for
	// open records dated strictly before the given day. Returns rows touched.
	CloseStaleOpenSessions(ctx context.Context, before time.Time) (int64, error)

	// InsertAbsentForDate inserts absent rows for active employees scheduled
	// to work on date who have no record. Returns rows inserted.
	InsertAbsentForDate(ctx context.Context, date time.Time) (int64, error)
}
