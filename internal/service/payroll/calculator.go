package payroll

import (
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/employee"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/payroll"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/schedule"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// WorkingDaysInPeriod counts the scheduled working days in [start, end],
// skipping days the schedule excludes and company holidays.
func WorkingDaysInPeriod(sched schedule.WorkSchedule, holidays []schedule.Holiday, start, end time.Time) int {
	holidaySet := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.Format("2006-01-02")] = struct{}{}
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !sched.Workdays.Includes(d.Weekday()) {
			continue
		}
		if _, ok := holidaySet[d.Format("2006-01-02")]; ok {
			continue
		}
		days++
	}
	return days
}

// BasicSalary derives the base pay of one period from the employee's salary
// configuration and attendance statistics.
//
// Monthly pay is prorated by days actually worked over scheduled working
// days. Daily pay multiplies the wage by worked days. Hourly pay covers
// regular hours only; overtime is paid separately.
func BasicSalary(emp employee.Employee, stats attendance.Stats, workingDays int) (decimal.Decimal, error) {
	switch emp.SalaryType {
	case employee.SalaryTypeMonthly:
		if emp.BaseSalary == nil {
			return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
		}
		if workingDays == 0 {
			return decimal.Zero, nil
		}
		return emp.BaseSalary.
			Mul(decimal.NewFromInt(int64(stats.WorkedDays()))).
			Div(decimal.NewFromInt(int64(workingDays))).
			Round(2), nil

	case employee.SalaryTypeDaily:
		if emp.DailyWage == nil {
			return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
		}
		return emp.DailyWage.
			Mul(decimal.NewFromInt(int64(stats.WorkedDays()))).
			Round(2), nil

	case employee.SalaryTypeHourly:
		if emp.HourlyRate == nil {
			return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
		}
		regularMinutes := stats.TotalWorkMinutes - stats.TotalOvertimeMinutes
		if regularMinutes < 0 {
			regularMinutes = 0
		}
		return emp.HourlyRate.
			Mul(decimal.NewFromInt(int64(regularMinutes))).
			Div(sixty).
			Round(2), nil
	}

	return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
}

// hourlyEquivalentRate converts any salary configuration to an hourly rate
// for overtime purposes.
func hourlyEquivalentRate(emp employee.Employee, settings payroll.Settings) (decimal.Decimal, error) {
	switch emp.SalaryType {
	case employee.SalaryTypeMonthly:
		if emp.BaseSalary == nil || !settings.StandardMonthlyHours.IsPositive() {
			return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
		}
		return emp.BaseSalary.Div(settings.StandardMonthlyHours), nil

	case employee.SalaryTypeDaily:
		if emp.DailyWage == nil || !settings.StandardDayHours().IsPositive() {
			return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
		}
		return emp.DailyWage.Div(settings.StandardDayHours()), nil

	case employee.SalaryTypeHourly:
		if emp.HourlyRate == nil {
			return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
		}
		return *emp.HourlyRate, nil
	}

	return decimal.Zero, payroll.ErrInvalidSalaryConfiguration
}

// OvertimeAmount derives overtime pay: overtime hours times the hourly
// equivalent rate times the company multiplier.
func OvertimeAmount(emp employee.Employee, settings payroll.Settings, stats attendance.Stats) (decimal.Decimal, error) {
	if stats.TotalOvertimeMinutes == 0 {
		return decimal.Zero, nil
	}

	rate, err := hourlyEquivalentRate(emp, settings)
	if err != nil {
		return decimal.Zero, err
	}

	overtimeHours := decimal.NewFromInt(int64(stats.TotalOvertimeMinutes)).Div(sixty)
	return overtimeHours.Mul(rate).Mul(settings.OvertimeMultiplier).Round(2), nil
}
