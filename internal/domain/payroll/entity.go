package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the single active payroll rule set of a company. When no row
// exists the defaults below apply.
type Settings struct {
	ID                   string
	CompanyID            string
	OvertimeMultiplier   decimal.Decimal
	StandardDayMinutes   int
	StandardMonthlyHours decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DefaultSettings returns the rule set used when a company has never saved one.
func DefaultSettings(companyID string) Settings {
	return Settings{
		CompanyID:            companyID,
		OvertimeMultiplier:   decimal.NewFromFloat(1.5),
		StandardDayMinutes:   480,
		StandardMonthlyHours: decimal.NewFromInt(173),
	}
}

// StandardDayHours converts the standard day length to hours.
func (s Settings) StandardDayHours() decimal.Decimal {
	return decimal.NewFromInt(int64(s.StandardDayMinutes)).Div(decimal.NewFromInt(60))
}

type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

// ValidStatus reports whether s is one of the known payroll statuses.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusDraft, StatusApproved, StatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether the draft -> approved -> paid state machine
// allows moving from s to next. Transitions are strictly forward-only.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusApproved
	case StatusApproved:
		return next == StatusPaid
	}
	return false
}

// Record is one employee's payroll for one pay period. Exactly one row exists
// per (employee_id, period_start, period_end); the database enforces this.
// Gross and net are always recomputed from their parts, never edited directly.
type Record struct {
	ID         string
	EmployeeID string
	CompanyID  string

	PeriodStart time.Time
	PeriodEnd   time.Time

	BasicSalary    decimal.Decimal
	OvertimeAmount decimal.Decimal
	Bonuses        decimal.Decimal
	Reimbursements decimal.Decimal
	GrossSalary    decimal.Decimal

	TaxDeduction       decimal.Decimal
	InsuranceDeduction decimal.Decimal
	OtherDeductions    decimal.Decimal
	TotalDeductions    decimal.Decimal

	NetSalary   decimal.Decimal
	NeedsReview bool

	TotalWorkingDays     int
	TotalPresentDays     int
	TotalOvertimeMinutes int

	Status      Status
	PaymentDate *time.Time
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// Recalculate rederives gross, total deductions, net and the review flag from
// the component amounts.
func (r *Record) Recalculate() {
	r.GrossSalary = r.BasicSalary.Add(r.OvertimeAmount).Add(r.Bonuses).Add(r.Reimbursements)
	r.TotalDeductions = r.TaxDeduction.Add(r.InsuranceDeduction).Add(r.OtherDeductions)
	r.NetSalary = r.GrossSalary.Sub(r.TotalDeductions)
	r.NeedsReview = r.NetSalary.IsNegative()
}
