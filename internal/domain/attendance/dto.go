package attendance

import (
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID string   `json:"employee_id"`
	Timestamp  *string  `json:"timestamp,omitempty"` // RFC3339; defaults to server time
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Timestamp != nil {
		if _, ok := validator.IsValidDateTime(*r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be a valid RFC3339 datetime",
			})
		}
	}

	errs = append(errs, validateLocation(r.Latitude, r.Longitude)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	EmployeeID string   `json:"employee_id"`
	Timestamp  *string  `json:"timestamp,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Timestamp != nil {
		if _, ok := validator.IsValidDateTime(*r.Timestamp); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be a valid RFC3339 datetime",
			})
		}
	}

	errs = append(errs, validateLocation(r.Latitude, r.Longitude)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLocation(lat, lon *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if lat != nil && (*lat < -90 || *lat > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	return errs
}

// CreateAttendanceRequest is the administrative manual-entry form. Unlike
// clock-in it may carry any status and pre-filled times.
type CreateAttendanceRequest struct {
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"` // YYYY-MM-DD
	Status       string  `json:"status"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`  // RFC3339
	ClockOutTime *string `json:"clock_out_time,omitempty"` // RFC3339
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	WorkMinutes  *int    `json:"work_minutes,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if !ValidStatus(r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, half_day, holiday",
		})
	}

	var in, out time.Time
	if r.ClockInTime != nil {
		var ok bool
		if in, ok = validator.IsValidDateTime(*r.ClockInTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in_time",
				Message: "clock_in_time must be a valid RFC3339 datetime",
			})
		}
	}
	if r.ClockOutTime != nil {
		var ok bool
		if out, ok = validator.IsValidDateTime(*r.ClockOutTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out_time",
				Message: "clock_out_time must be a valid RFC3339 datetime",
			})
		}
	}
	if !in.IsZero() && !out.IsZero() && out.Before(in) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must not be before clock_in_time",
		})
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must be non-negative",
		})
	}
	if r.WorkMinutes != nil && *r.WorkMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "work_minutes",
			Message: "work_minutes must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAttendanceRequest struct {
	ID           string  `json:"-"`
	Status       *string `json:"status,omitempty"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`
	ClockOutTime *string `json:"clock_out_time,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !ValidStatus(*r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, late, half_day, holiday",
		})
	}
	if r.ClockInTime != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockInTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in_time",
				Message: "clock_in_time must be a valid RFC3339 datetime",
			})
		}
	}
	if r.ClockOutTime != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockOutTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out_time",
				Message: "clock_out_time must be a valid RFC3339 datetime",
			})
		}
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	EmployeeName      string   `json:"employee_name,omitempty"`
	Date              string   `json:"date"`
	ClockInTime       *string  `json:"clock_in_time,omitempty"`
	ClockOutTime      *string  `json:"clock_out_time,omitempty"`
	TotalHours        *float64 `json:"total_hours,omitempty"`
	BreakMinutes      int      `json:"break_minutes"`
	OvertimeHours     float64  `json:"overtime_hours"`
	LateMinutes       int      `json:"late_minutes"`
	EarlyLeaveMinutes int      `json:"early_leave_minutes"`
	Status            string   `json:"status"`
	IsLate            bool     `json:"is_late"`
	Notes             *string  `json:"notes,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // date, clock_in_time, clock_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.Status != nil && *f.Status != "" && !ValidStatus(*f.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "unknown attendance status",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StatsFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	DateFrom   string  `json:"date_from"` // YYYY-MM-DD
	DateTo     string  `json:"date_to"`   // YYYY-MM-DD
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(f.DateFrom)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "date_from",
			Message: "date_from must be in YYYY-MM-DD format",
		})
	}
	to, okTo := validator.IsValidDate(f.DateTo)
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: "date_to must be in YYYY-MM-DD format",
		})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: "date_to must not be before date_from",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StatsResponse struct {
	TotalRecords       int     `json:"total_records"`
	PresentCount       int     `json:"present_count"`
	AbsentCount        int     `json:"absent_count"`
	LateCount          int     `json:"late_count"`
	HalfDayCount       int     `json:"half_day_count"`
	HolidayCount       int     `json:"holiday_count"`
	TotalHours         float64 `json:"total_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AverageHours       float64 `json:"average_hours"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
