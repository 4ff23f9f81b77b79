package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository) *AttendanceJobs {
	return &AttendanceJobs{attendanceRepo: attendanceRepo}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_open_sessions", 1*time.Hour, j.CloseStaleSessions)
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// CloseStaleSessions closes clock-in sessions left open past midnight,
// filling the missing clock-out with the scheduled day end and noting the
// record so the employee can raise a correction.
func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting close stale open sessions job")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	closed, err := j.attendanceRepo.CloseStaleOpenSessions(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to close stale sessions: %w", err)
	}

	slog.Info("Cron: Closed stale open sessions", "count", closed)
	return nil
}

// MarkAbsentEmployees inserts absent records for active employees who
// have no attendance row for yesterday. Runs once per day after midnight.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting mark absent employees job")

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	inserted, err := j.attendanceRepo.InsertAbsentForDate(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees: %w", err)
	}

	slog.Info("Cron: Marked absent employees", "count", inserted)
	return nil
}
