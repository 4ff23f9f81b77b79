package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in / clock-out errors
	ErrAlreadyClockedIn = errors.New("you have already clocked in today")
	ErrNotClockedIn     = errors.New("you have not clocked in yet")
	ErrNoScheduleFound  = errors.New("no work schedule found for employee")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDuplicateDay       = errors.New("attendance record already exists for this date")
)
