package payroll

import (
	"testing"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/employee"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/payroll"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monToFriSchedule() schedule.WorkSchedule {
	return schedule.WorkSchedule{
		StartMinute:  9 * 60,
		EndMinute:    18 * 60,
		BreakMinutes: 60,
		Workdays:     schedule.WorkdaysMonToFri,
	}
}

func TestWorkingDaysInPeriod(t *testing.T) {
	// June 2025: the 1st is a Sunday, 21 weekdays follow.
	start := date(2025, time.June, 1)
	end := date(2025, time.June, 30)

	days := WorkingDaysInPeriod(monToFriSchedule(), nil, start, end)
	assert.Equal(t, 21, days)

	// A holiday on a weekday drops the count, one on a weekend does not.
	holidays := []schedule.Holiday{
		{Date: date(2025, time.June, 2)},  // Monday
		{Date: date(2025, time.June, 7)},  // Saturday
	}
	days = WorkingDaysInPeriod(monToFriSchedule(), holidays, start, end)
	assert.Equal(t, 20, days)
}

func TestBasicSalaryMonthlyProrated(t *testing.T) {
	emp := employee.Employee{
		SalaryType: employee.SalaryTypeMonthly,
		BaseSalary: decPtr(3000),
	}
	stats := attendance.Stats{PresentCount: 20}

	got, err := BasicSalary(emp, stats, 22)
	require.NoError(t, err)

	// 3000 * 20 / 22
	assert.True(t, got.Equal(decimal.NewFromFloat(2727.27)), "got %s", got)
}

func TestBasicSalaryMonthlyFullAttendance(t *testing.T) {
	emp := employee.Employee{
		SalaryType: employee.SalaryTypeMonthly,
		BaseSalary: decPtr(3000),
	}
	stats := attendance.Stats{PresentCount: 20, LateCount: 2}

	got, err := BasicSalary(emp, stats, 22)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(3000)), "got %s", got)
}

func TestBasicSalaryMonthlyZeroWorkingDays(t *testing.T) {
	emp := employee.Employee{
		SalaryType: employee.SalaryTypeMonthly,
		BaseSalary: decPtr(3000),
	}

	got, err := BasicSalary(emp, attendance.Stats{}, 0)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestBasicSalaryDaily(t *testing.T) {
	emp := employee.Employee{
		SalaryType: employee.SalaryTypeDaily,
		DailyWage:  decPtr(120),
	}
	stats := attendance.Stats{PresentCount: 15, LateCount: 1, HalfDayCount: 1}

	got, err := BasicSalary(emp, stats, 22)
	require.NoError(t, err)

	// 120 * 17 worked days
	assert.True(t, got.Equal(decimal.NewFromInt(2040)), "got %s", got)
}

func TestBasicSalaryHourlyExcludesOvertime(t *testing.T) {
	emp := employee.Employee{
		SalaryType: employee.SalaryTypeHourly,
		HourlyRate: decPtr(20),
	}
	stats := attendance.Stats{
		TotalWorkMinutes:     10*60 + 90, // includes 90 overtime minutes
		TotalOvertimeMinutes: 90,
	}

	got, err := BasicSalary(emp, stats, 22)
	require.NoError(t, err)

	// 10 regular hours at 20
	assert.True(t, got.Equal(decimal.NewFromInt(200)), "got %s", got)
}

func TestBasicSalaryMissingRate(t *testing.T) {
	cases := []employee.Employee{
		{SalaryType: employee.SalaryTypeMonthly},
		{SalaryType: employee.SalaryTypeDaily},
		{SalaryType: employee.SalaryTypeHourly},
		{SalaryType: employee.SalaryType("commission")},
	}

	for _, emp := range cases {
		_, err := BasicSalary(emp, attendance.Stats{}, 22)
		assert.ErrorIs(t, err, payroll.ErrInvalidSalaryConfiguration, "salary type %s", emp.SalaryType)
	}
}

func TestOvertimeAmountHourly(t *testing.T) {
	emp := employee.Employee{
		SalaryType: employee.SalaryTypeHourly,
		HourlyRate: decPtr(20),
	}
	settings := payroll.DefaultSettings("company-1")
	stats := attendance.Stats{TotalOvertimeMinutes: 120}

	got, err := OvertimeAmount(emp, settings, stats)
	require.NoError(t, err)

	// 2h * 20 * 1.5
	assert.True(t, got.Equal(decimal.NewFromInt(60)), "got %s", got)
}

func TestOvertimeAmountMonthly(t *testing.T) {
	emp := employee.Employee{
		SalaryType: employee.SalaryTypeMonthly,
		BaseSalary: decPtr(3460),
	}
	settings := payroll.DefaultSettings("company-1")
	stats := attendance.Stats{TotalOvertimeMinutes: 60}

	got, err := OvertimeAmount(emp, settings, stats)
	require.NoError(t, err)

	// 3460 / 173 = 20 per hour, 1h * 20 * 1.5
	assert.True(t, got.Equal(decimal.NewFromInt(30)), "got %s", got)
}

func TestOvertimeAmountZeroMinutes(t *testing.T) {
	emp := employee.Employee{SalaryType: employee.SalaryTypeMonthly}
	settings := payroll.DefaultSettings("company-1")

	got, err := OvertimeAmount(emp, settings, attendance.Stats{})
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
