package attendance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)

	assert.Equal(t, Stats{}, stats)
	assert.Equal(t, 0, stats.WorkedDays())
	assert.Equal(t, 0.0, stats.TotalHours())
	assert.Equal(t, 0.0, stats.AverageHours())
}

func TestSummarizeCounts(t *testing.T) {
	records := []Attendance{
		{Status: StatusPresent, WorkMinutes: intPtr(480)},
		{Status: StatusPresent, WorkMinutes: intPtr(510), OvertimeMinutes: 30},
		{Status: StatusLate, WorkMinutes: intPtr(450)},
		{Status: StatusHalfDay, WorkMinutes: intPtr(240)},
		{Status: StatusAbsent},
		{Status: StatusHoliday},
	}

	stats := Summarize(records)

	assert.Equal(t, 6, stats.TotalRecords)
	assert.Equal(t, 2, stats.PresentCount)
	assert.Equal(t, 1, stats.LateCount)
	assert.Equal(t, 1, stats.HalfDayCount)
	assert.Equal(t, 1, stats.AbsentCount)
	assert.Equal(t, 1, stats.HolidayCount)
	assert.Equal(t, 480+510+450+240, stats.TotalWorkMinutes)
	assert.Equal(t, 30, stats.TotalOvertimeMinutes)
	assert.Equal(t, 4, stats.WorkedDays())
	assert.InDelta(t, 28.0, stats.TotalHours(), 0.001)
	assert.InDelta(t, 14.0, stats.AverageHours(), 0.001)
}

func TestSummarizeOrderIndependent(t *testing.T) {
	records := []Attendance{
		{Status: StatusPresent, WorkMinutes: intPtr(480)},
		{Status: StatusLate, WorkMinutes: intPtr(420), OvertimeMinutes: 15},
		{Status: StatusAbsent},
		{Status: StatusHalfDay, WorkMinutes: intPtr(200)},
		{Status: StatusPresent, WorkMinutes: intPtr(495), OvertimeMinutes: 15},
	}

	want := Summarize(records)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]Attendance, len(records))
		copy(shuffled, records)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Summarize(shuffled))
	}
}

func TestAverageHoursIgnoresAbsentDays(t *testing.T) {
	records := []Attendance{
		{Status: StatusPresent, WorkMinutes: intPtr(480)},
		{Status: StatusAbsent},
		{Status: StatusAbsent},
	}

	stats := Summarize(records)

	// 8 worked hours over 1 present day, absences don't dilute the average.
	assert.InDelta(t, 8.0, stats.AverageHours(), 0.001)
}

func TestAverageHoursDividesByPresentDaysOnly(t *testing.T) {
	records := []Attendance{
		{Status: StatusPresent, WorkMinutes: intPtr(480)},
		{Status: StatusLate, WorkMinutes: intPtr(480)},
	}

	stats := Summarize(records)

	// The late day's 8 hours count toward the total but only the present
	// day divides it: 16 total hours over 1 present day.
	assert.InDelta(t, 16.0, stats.TotalHours(), 0.001)
	assert.InDelta(t, 16.0, stats.AverageHours(), 0.001)
}
