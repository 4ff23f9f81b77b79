package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn opens the employee's workday for the current business date
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the open workday and derives hours and overtime
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// GetStats aggregates records in a date range into summary statistics
	GetStats(ctx context.Context, filter StatsFilter) (StatsResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// CreateAttendance records a manual entry (admin)
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// UpdateAttendance fixes an attendance record (admin)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// DeleteAttendance removes an attendance record (admin)
	DeleteAttendance(ctx context.Context, id string) error
}
