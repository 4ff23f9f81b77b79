package schedule

import (
	"context"
	"time"
)

// WorkScheduleRepository defines data access methods for work schedules.
type WorkScheduleRepository interface {
	// GetByEmployeeID retrieves the schedule assigned to an employee
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (WorkSchedule, error)

	// GetByID retrieves a schedule by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (WorkSchedule, error)
}

// HolidayRepository defines data access methods for company holidays.
type HolidayRepository interface {
	// ListByRange retrieves holidays falling inside [from, to] inclusive
	ListByRange(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error)
}
