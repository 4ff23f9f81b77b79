package attendance

// Stats summarizes a set of attendance rows. All fields are plain sums and
// counts, so Summarize is order-independent.
type Stats struct {
	TotalRecords         int
	PresentCount         int
	AbsentCount          int
	LateCount            int
	HalfDayCount         int
	HolidayCount         int
	TotalWorkMinutes     int
	TotalOvertimeMinutes int
}

// Summarize computes Stats over records. An empty input yields zero stats.
func Summarize(records []Attendance) Stats {
	var s Stats
	s.TotalRecords = len(records)
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.PresentCount++
		case StatusAbsent:
			s.AbsentCount++
		case StatusLate:
			s.LateCount++
		case StatusHalfDay:
			s.HalfDayCount++
		case StatusHoliday:
			s.HolidayCount++
		}
		if r.WorkMinutes != nil {
			s.TotalWorkMinutes += *r.WorkMinutes
		}
		s.TotalOvertimeMinutes += r.OvertimeMinutes
	}
	return s
}

// WorkedDays is the number of days the employee attended in any capacity.
// Late arrivals and half days still count as attended days for payroll
// proration.
func (s Stats) WorkedDays() int {
	return s.PresentCount + s.LateCount + s.HalfDayCount
}

// TotalHours converts the summed work minutes to hours.
func (s Stats) TotalHours() float64 {
	return float64(s.TotalWorkMinutes) / 60.0
}

// TotalOvertimeHours converts the summed overtime minutes to hours.
func (s Stats) TotalOvertimeHours() float64 {
	return float64(s.TotalOvertimeMinutes) / 60.0
}

// AverageHours is TotalHours divided by the present-day count, zero when no
// day was fully present. Late and half days contribute their worked time to
// the numerator without widening the denominator.
func (s Stats) AverageHours() float64 {
	if s.PresentCount == 0 {
		return 0
	}
	return s.TotalHours() / float64(s.PresentCount)
}
