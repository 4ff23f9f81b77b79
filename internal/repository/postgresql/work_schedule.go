package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/schedule"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workScheduleRepositoryImpl struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepositoryImpl{db: db}
}

// GetByEmployeeID implements schedule.WorkScheduleRepository.
func (r *workScheduleRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ws.id, ws.company_id, ws.name, ws.start_minute, ws.end_minute,
			   ws.grace_period_minutes, ws.break_minutes, ws.workdays,
			   ws.created_at, ws.updated_at
		FROM work_schedules ws
		JOIN employees e ON e.work_schedule_id = ws.id
		WHERE e.id = $1 AND ws.company_id = $2
	`

	var s schedule.WorkSchedule
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.StartMinute, &s.EndMinute,
		&s.GracePeriodMinutes, &s.BreakMinutes, &s.Workdays,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule by employee: %w", err)
	}

	return s, nil
}

// GetByID implements schedule.WorkScheduleRepository.
func (r *workScheduleRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, start_minute, end_minute,
			   grace_period_minutes, break_minutes, workdays,
			   created_at, updated_at
		FROM work_schedules
		WHERE id = $1 AND company_id = $2
	`

	var s schedule.WorkSchedule
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&s.ID, &s.CompanyID, &s.Name, &s.StartMinute, &s.EndMinute,
		&s.GracePeriodMinutes, &s.BreakMinutes, &s.Workdays,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}

	return s, nil
}

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) schedule.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListByRange implements schedule.HolidayRepository.
func (r *holidayRepositoryImpl) ListByRange(ctx context.Context, companyID string, from, to time.Time) ([]schedule.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, date, name, created_at
		FROM holidays
		WHERE company_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []schedule.Holiday
	for rows.Next() {
		var h schedule.Holiday
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}
