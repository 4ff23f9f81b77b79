package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/employee"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/schedule"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	schedule.WorkScheduleRepository
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.WorkScheduleRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository:   attendanceRepo,
		EmployeeRepository:     employeeRepo,
		WorkScheduleRepository: scheduleRepo,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// eventTime resolves the effective instant of a clock event. All attendance
// math runs in UTC.
func eventTime(ts *string) time.Time {
	if ts != nil {
		if t, err := time.Parse(time.RFC3339, *ts); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func businessDate(t time.Time) time.Time {
	return t.Truncate(24 * time.Hour)
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func minutesToHours(mins int) float64 {
	return math.Round(float64(mins)/60*100) / 100
}

func toResponse(att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                att.ID,
		EmployeeID:        att.EmployeeID,
		Date:              att.Date.Format("2006-01-02"),
		ClockInTime:       timePtrToString(att.ClockIn),
		ClockOutTime:      timePtrToString(att.ClockOut),
		BreakMinutes:      att.BreakMinutes,
		OvertimeHours:     minutesToHours(att.OvertimeMinutes),
		LateMinutes:       att.LateMinutes,
		EarlyLeaveMinutes: att.EarlyLeaveMinutes,
		Status:            string(att.Status),
		IsLate:            att.LateMinutes > 0,
		Notes:             att.Notes,
		CreatedAt:         att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         att.UpdatedAt.Format(time.RFC3339),
	}
	if att.WorkMinutes != nil {
		hours := minutesToHours(*att.WorkMinutes)
		resp.TotalHours = &hours
	}
	if att.EmployeeName != nil {
		resp.EmployeeName = *att.EmployeeName
	}
	return resp
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := eventTime(req.Timestamp)
	date := businessDate(now)

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	sched, err := a.WorkScheduleRepository.GetByEmployeeID(ctx, emp.ID, companyID)
	if err != nil {
		if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNoScheduleFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, date, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil && existing.ClockIn != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	// Late when clock-in falls after scheduled start plus grace. Lateness is
	// still counted from the scheduled start itself.
	status := attendance.StatusPresent
	lateMinutes := 0
	scheduledStart := sched.ClockInAt(date)
	if now.After(scheduledStart.Add(time.Duration(sched.GracePeriodMinutes) * time.Minute)) {
		lateMinutes = int(now.Sub(scheduledStart).Minutes())
		status = attendance.StatusLate
	}

	if existing != nil {
		// Row pre-created without a clock-in (absent marking); take it over.
		existing.ClockIn = &now
		existing.Status = status
		existing.LateMinutes = lateMinutes
		existing.BreakMinutes = sched.BreakMinutes
		existing.ClockInLatitude = req.Latitude
		existing.ClockInLongitude = req.Longitude
		if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
			return attendance.AttendanceResponse{}, err
		}
		return toResponse(*existing), nil
	}

	record := attendance.Attendance{
		EmployeeID:       emp.ID,
		CompanyID:        companyID,
		Date:             date,
		ClockIn:          &now,
		BreakMinutes:     sched.BreakMinutes,
		LateMinutes:      lateMinutes,
		Status:           status,
		ClockInLatitude:  req.Latitude,
		ClockInLongitude: req.Longitude,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		// A concurrent clock-in for the same day won the unique key race.
		if errors.Is(err, attendance.ErrDuplicateDay) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.AttendanceResponse{}, err
	}

	return toResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := eventTime(req.Timestamp)
	date := businessDate(now)

	open, err := a.AttendanceRepository.GetOpenRecord(ctx, req.EmployeeID, date, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open record: %w", err)
	}

	sched, err := a.WorkScheduleRepository.GetByEmployeeID(ctx, req.EmployeeID, companyID)
	if err != nil {
		if errors.Is(err, schedule.ErrWorkScheduleNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNoScheduleFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	workMinutes := int(now.Sub(*open.ClockIn).Minutes()) - open.BreakMinutes
	if workMinutes < 0 {
		workMinutes = 0
	}

	overtimeMinutes := workMinutes - sched.StandardDayMinutes()
	if overtimeMinutes < 0 {
		overtimeMinutes = 0
	}

	earlyLeaveMinutes := 0
	scheduledEnd := sched.ClockOutAt(date)
	if now.Before(scheduledEnd) {
		earlyLeaveMinutes = int(scheduledEnd.Sub(now).Minutes())
	}

	open.ClockOut = &now
	open.WorkMinutes = &workMinutes
	open.OvertimeMinutes = overtimeMinutes
	open.EarlyLeaveMinutes = earlyLeaveMinutes
	open.ClockOutLatitude = req.Latitude
	open.ClockOutLongitude = req.Longitude

	if err := a.AttendanceRepository.Update(ctx, open); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toResponse(open), nil
}

// GetStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetStats(ctx context.Context, filter attendance.StatsFilter) (attendance.StatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	from, _ := time.Parse("2006-01-02", filter.DateFrom)
	to, _ := time.Parse("2006-01-02", filter.DateTo)

	records, err := a.AttendanceRepository.ListRange(ctx, companyID, filter.EmployeeID, from, to)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	stats := attendance.Summarize(records)

	return attendance.StatsResponse{
		TotalRecords:       stats.TotalRecords,
		PresentCount:       stats.PresentCount,
		AbsentCount:        stats.AbsentCount,
		LateCount:          stats.LateCount,
		HalfDayCount:       stats.HalfDayCount,
		HolidayCount:       stats.HolidayCount,
		TotalHours:         stats.TotalHours(),
		TotalOvertimeHours: stats.TotalOvertimeHours(),
		AverageHours:       stats.AverageHours(),
	}, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toResponse(rec))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, id, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toResponse(record), nil
}

// CreateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	record := attendance.Attendance{
		EmployeeID: emp.ID,
		CompanyID:  companyID,
		Date:       date,
		Status:     attendance.Status(req.Status),
		Notes:      req.Notes,
	}

	if req.ClockInTime != nil {
		in, _ := time.Parse(time.RFC3339, *req.ClockInTime)
		in = in.UTC()
		record.ClockIn = &in
	}
	if req.ClockOutTime != nil {
		out, _ := time.Parse(time.RFC3339, *req.ClockOutTime)
		out = out.UTC()
		record.ClockOut = &out
	}
	if req.BreakMinutes != nil {
		record.BreakMinutes = *req.BreakMinutes
	}

	switch {
	case req.WorkMinutes != nil:
		record.WorkMinutes = req.WorkMinutes
	case record.ClockIn != nil && record.ClockOut != nil:
		mins := int(record.ClockOut.Sub(*record.ClockIn).Minutes()) - record.BreakMinutes
		if mins < 0 {
			mins = 0
		}
		record.WorkMinutes = &mins
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Status != nil {
		record.Status = attendance.Status(*req.Status)
	}
	if req.ClockInTime != nil {
		in, _ := time.Parse(time.RFC3339, *req.ClockInTime)
		in = in.UTC()
		record.ClockIn = &in
	}
	if req.ClockOutTime != nil {
		out, _ := time.Parse(time.RFC3339, *req.ClockOutTime)
		out = out.UTC()
		record.ClockOut = &out
	}
	if req.BreakMinutes != nil {
		record.BreakMinutes = *req.BreakMinutes
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	// Worked time follows the corrected clock times.
	if record.ClockIn != nil && record.ClockOut != nil {
		mins := int(record.ClockOut.Sub(*record.ClockIn).Minutes()) - record.BreakMinutes
		if mins < 0 {
			mins = 0
		}
		record.WorkMinutes = &mins
	}

	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toResponse(record), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	return a.AttendanceRepository.Delete(ctx, id, companyID)
}
