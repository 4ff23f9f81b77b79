package schedule

import "time"

// WorkSchedule describes the expected workday of the employees assigned to it.
// Clock times are stored as minutes from midnight so that lateness and
// early-departure math never has to parse wall-clock strings.
type WorkSchedule struct {
	ID                 string
	CompanyID          string
	Name               string
	StartMinute        int
	EndMinute          int
	GracePeriodMinutes int
	BreakMinutes       int
	Workdays           Workdays
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Workdays is a bitmask of working weekdays, bit 0 = Monday .. bit 6 = Sunday.
type Workdays uint8

const WorkdaysMonToFri Workdays = 0b0011111

// Includes reports whether the given weekday is a working day.
func (w Workdays) Includes(day time.Weekday) bool {
	// time.Weekday starts at Sunday; shift so Monday is bit 0.
	idx := (int(day) + 6) % 7
	return w&(1<<idx) != 0
}

// StandardDayMinutes is the scheduled net working time of one day.
func (s WorkSchedule) StandardDayMinutes() int {
	mins := s.EndMinute - s.StartMinute - s.BreakMinutes
	if mins < 0 {
		return 0
	}
	return mins
}

// ClockInAt returns the scheduled clock-in instant for the given business date.
func (s WorkSchedule) ClockInAt(date time.Time) time.Time {
	day := date.Truncate(24 * time.Hour)
	return day.Add(time.Duration(s.StartMinute) * time.Minute)
}

// ClockOutAt returns the scheduled clock-out instant for the given business date.
func (s WorkSchedule) ClockOutAt(date time.Time) time.Time {
	day := date.Truncate(24 * time.Hour)
	return day.Add(time.Duration(s.EndMinute) * time.Minute)
}

// Holiday is a company-wide non-working date, excluded from payroll
// working-day counts.
type Holiday struct {
	ID        string
	CompanyID string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
