package response

import (
	"errors"
	"net/http"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/employee"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/payroll"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/schedule"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Employee already clocked in today")
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "No open clock-in session for today")
	case errors.Is(err, attendance.ErrDuplicateDay):
		Conflict(w, "Attendance record already exists for this date")
	case errors.Is(err, attendance.ErrNoScheduleFound):
		NotFound(w, "No work schedule assigned to employee")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee and schedule domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, schedule.ErrWorkScheduleNotFound):
		NotFound(w, "Work schedule not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrInvalidSalaryConfiguration):
		BadRequest(w, "Employee salary configuration is incomplete", nil)
	case errors.Is(err, payroll.ErrImmutableRecord):
		Conflict(w, "Paid payroll record cannot be modified")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, "Invalid payroll status transition")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid pay period", nil)
	case errors.Is(err, payroll.ErrSettingsNotFound):
		NotFound(w, "Payroll settings not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
