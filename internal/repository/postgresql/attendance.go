package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.date,
	a.clock_in, a.clock_out, a.work_minutes, a.break_minutes,
	a.overtime_minutes, a.late_minutes, a.early_leave_minutes,
	a.status, a.clock_in_latitude, a.clock_in_longitude,
	a.clock_out_latitude, a.clock_out_longitude, a.notes,
	a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, att *attendance.Attendance, withEmployee bool) error {
	dest := []interface{}{
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
		&att.ClockIn, &att.ClockOut, &att.WorkMinutes, &att.BreakMinutes,
		&att.OvertimeMinutes, &att.LateMinutes, &att.EarlyLeaveMinutes,
		&att.Status, &att.ClockInLatitude, &att.ClockInLongitude,
		&att.ClockOutLatitude, &att.ClockOutLongitude, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &att.EmployeeName)
	}
	return row.Scan(dest...)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	record.ID = uuid.NewString()

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date,
			clock_in, clock_out, work_minutes, break_minutes,
			overtime_minutes, late_minutes, early_leave_minutes,
			status, clock_in_latitude, clock_in_longitude,
			clock_out_latitude, clock_out_longitude, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.CompanyID,
		record.Date,
		record.ClockIn,
		record.ClockOut,
		record.WorkMinutes,
		record.BreakMinutes,
		record.OvertimeMinutes,
		record.LateMinutes,
		record.EarlyLeaveMinutes,
		record.Status,
		record.ClockInLatitude,
		record.ClockInLongitude,
		record.ClockOutLatitude,
		record.ClockOutLongitude,
		record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrDuplicateDay
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			   e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, id, companyID), &att, true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		LIMIT 1
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID), &att, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetOpenRecord implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenRecord(ctx context.Context, employeeID string, date time.Time, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		  AND a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		LIMIT 1
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID), &att, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get open attendance record: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			clock_in = $1,
			clock_out = $2,
			work_minutes = $3,
			break_minutes = $4,
			overtime_minutes = $5,
			late_minutes = $6,
			early_leave_minutes = $7,
			status = $8,
			clock_in_latitude = $9,
			clock_in_longitude = $10,
			clock_out_latitude = $11,
			clock_out_longitude = $12,
			notes = $13,
			updated_at = NOW()
		WHERE id = $14 AND company_id = $15
	`

	tag, err := q.Exec(ctx, query,
		record.ClockIn,
		record.ClockOut,
		record.WorkMinutes,
		record.BreakMinutes,
		record.OvertimeMinutes,
		record.LateMinutes,
		record.EarlyLeaveMinutes,
		record.Status,
		record.ClockInLatitude,
		record.ClockInLongitude,
		record.ClockOutLatitude,
		record.ClockOutLongitude,
		record.Notes,
		record.ID,
		record.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "clock_in_time":
		orderByField = "a.clock_in"
	case "clock_out_time":
		orderByField = "a.clock_out"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	// Build query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			   e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att, true); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, rows.Err()
}

// ListRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRange(ctx context.Context, companyID string, employeeID *string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.company_id = $1 AND a.date >= $2 AND a.date <= $3"
	args := []interface{}{companyID, from, to}
	if employeeID != nil && *employeeID != "" {
		baseWhere += " AND a.employee_id = $4"
		args = append(args, *employeeID)
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE ` + baseWhere + `
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance range: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att, false); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, rows.Err()
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// CloseStaleOpenSessions implements attendance.AttendanceRepository.
// Open rows dated before the cutoff get their clock-out filled with the
// scheduled day end and their worked time rederived from it.
func (a *attendanceRepository) CloseStaleOpenSessions(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances a SET
			clock_out = a.date + make_interval(mins => ws.end_minute),
			work_minutes = GREATEST(
				(EXTRACT(EPOCH FROM (a.date + make_interval(mins => ws.end_minute) - a.clock_in)) / 60)::int
					- a.break_minutes,
				0
			),
			notes = COALESCE(a.notes || ' ', '') || 'Auto-closed: no clock-out recorded.',
			updated_at = NOW()
		FROM employees e
		JOIN work_schedules ws ON ws.id = e.work_schedule_id
		WHERE a.employee_id = e.id
		  AND a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		  AND a.date < $1
	`

	tag, err := q.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to close stale open sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}

// InsertAbsentForDate implements attendance.AttendanceRepository.
// Inserts absent rows for active employees whose schedule includes the
// weekday of date and who have no row yet. Company holidays are skipped.
// The workdays bitmask has Monday at bit 0, matching ISODOW - 1.
func (a *attendanceRepository) InsertAbsentForDate(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (id, employee_id, company_id, date, status, work_minutes, break_minutes)
		SELECT gen_random_uuid(), e.id, e.company_id, $1, 'absent', 0, 0
		FROM employees e
		JOIN work_schedules ws ON ws.id = e.work_schedule_id
		WHERE e.employment_status = 'active'
		  AND e.deleted_at IS NULL
		  AND (ws.workdays >> (EXTRACT(ISODOW FROM $1::timestamptz)::int - 1)) & 1 = 1
		  AND NOT EXISTS (
			SELECT 1 FROM attendances a WHERE a.employee_id = e.id AND a.date = $1
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM holidays h WHERE h.company_id = e.company_id AND h.date = $1
		  )
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, date)
	if err != nil {
		return 0, fmt.Errorf("failed to insert absent records: %w", err)
	}

	return tag.RowsAffected(), nil
}
