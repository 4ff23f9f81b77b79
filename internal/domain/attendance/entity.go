package attendance

import (
	"time"
)

// Attendance is one employee-day row. At most one row exists per
// (employee_id, date); the database enforces this with a unique key.
// An "open" row has a clock-in and no clock-out yet.
type Attendance struct {
	ID                string
	EmployeeID        string
	CompanyID         string
	Date              time.Time
	ClockIn           *time.Time
	ClockOut          *time.Time
	WorkMinutes       *int
	BreakMinutes      int
	OvertimeMinutes   int
	LateMinutes       int
	EarlyLeaveMinutes int
	Status            Status
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined fields
	EmployeeName *string
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusHoliday Status = "holiday"
)

// ValidStatus reports whether s is one of the known attendance statuses.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay, StatusHoliday:
		return true
	}
	return false
}

// IsOpen reports whether the row represents an in-progress workday.
func (a Attendance) IsOpen() bool {
	return a.ClockIn != nil && a.ClockOut == nil
}
