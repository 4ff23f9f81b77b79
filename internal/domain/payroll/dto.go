package payroll

import (
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTINGS DTOs ==========

type SettingsResponse struct {
	ID                   string          `json:"id,omitempty"`
	CompanyID            string          `json:"company_id"`
	OvertimeMultiplier   decimal.Decimal `json:"overtime_multiplier"`
	StandardDayMinutes   int             `json:"standard_day_minutes"`
	StandardMonthlyHours decimal.Decimal `json:"standard_monthly_hours"`
}

type UpdateSettingsRequest struct {
	OvertimeMultiplier   *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	StandardDayMinutes   *int             `json:"standard_day_minutes,omitempty"`
	StandardMonthlyHours *decimal.Decimal `json:"standard_monthly_hours,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.OvertimeMultiplier != nil && r.OvertimeMultiplier.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must be non-negative"})
	}
	if r.StandardDayMinutes != nil && (*r.StandardDayMinutes <= 0 || *r.StandardDayMinutes > 24*60) {
		errs = append(errs, validator.ValidationError{Field: "standard_day_minutes", Message: "must be between 1 and 1440"})
	}
	if r.StandardMonthlyHours != nil && !r.StandardMonthlyHours.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "standard_monthly_hours", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RECORD DTOs ==========

// CalculateRequest creates a draft payroll record for one employee and period.
// The optional amounts are the caller-supplied extras and deductions; basic
// salary and overtime are always derived, never supplied.
type CalculateRequest struct {
	EmployeeID         string           `json:"employee_id"`
	PeriodStart        string           `json:"pay_period_start"` // YYYY-MM-DD
	PeriodEnd          string           `json:"pay_period_end"`   // YYYY-MM-DD
	Bonuses            *decimal.Decimal `json:"bonuses,omitempty"`
	Reimbursements     *decimal.Decimal `json:"reimbursements,omitempty"`
	TaxDeduction       *decimal.Decimal `json:"tax_deduction,omitempty"`
	InsuranceDeduction *decimal.Decimal `json:"insurance_deduction,omitempty"`
	OtherDeductions    *decimal.Decimal `json:"other_deductions,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "pay_period_start", Message: "must be in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "pay_period_end", Message: "must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "pay_period_end", Message: "must not be before pay_period_start"})
	}

	for field, amount := range map[string]*decimal.Decimal{
		"bonuses":             r.Bonuses,
		"reimbursements":      r.Reimbursements,
		"tax_deduction":       r.TaxDeduction,
		"insurance_deduction": r.InsuranceDeduction,
		"other_deductions":    r.OtherDeductions,
	} {
		if amount != nil && amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRecordRequest edits the caller-supplied amounts of a draft or
// approved record. Gross and net are rederived server-side.
type UpdateRecordRequest struct {
	ID                 string           `json:"-"`
	Bonuses            *decimal.Decimal `json:"bonuses,omitempty"`
	Reimbursements     *decimal.Decimal `json:"reimbursements,omitempty"`
	TaxDeduction       *decimal.Decimal `json:"tax_deduction,omitempty"`
	InsuranceDeduction *decimal.Decimal `json:"insurance_deduction,omitempty"`
	OtherDeductions    *decimal.Decimal `json:"other_deductions,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	PaymentDate        *string          `json:"payment_date,omitempty"` // YYYY-MM-DD
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, amount := range map[string]*decimal.Decimal{
		"bonuses":             r.Bonuses,
		"reimbursements":      r.Reimbursements,
		"tax_deduction":       r.TaxDeduction,
		"insurance_deduction": r.InsuranceDeduction,
		"other_deductions":    r.OtherDeductions,
	} {
		if amount != nil && amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID          string  `json:"-"`
	Status      string  `json:"status"`
	PaymentDate *string `json:"payment_date,omitempty"` // YYYY-MM-DD
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !ValidStatus(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of draft, approved, paid"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
	PeriodStart  string `json:"pay_period_start"`
	PeriodEnd    string `json:"pay_period_end"`

	BasicSalary    decimal.Decimal `json:"basic_salary"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	Bonuses        decimal.Decimal `json:"bonuses"`
	Reimbursements decimal.Decimal `json:"reimbursements"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`

	TaxDeduction       decimal.Decimal `json:"tax_deduction"`
	InsuranceDeduction decimal.Decimal `json:"insurance_deduction"`
	OtherDeductions    decimal.Decimal `json:"other_deductions"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`

	NetSalary   decimal.Decimal `json:"net_salary"`
	NeedsReview bool            `json:"needs_review"`

	TotalWorkingDays   int     `json:"total_working_days"`
	TotalPresentDays   int     `json:"total_present_days"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`

	Status      string  `json:"status"`
	PaymentDate *string `json:"payment_date,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type Filter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // period overlapping filter
	EndDate    *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Status != nil && *f.Status != "" && !ValidStatus(*f.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown payroll status"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListRecordResponse struct {
	Data       []RecordResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

type SummaryResponse struct {
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	TotalEmployees   int             `json:"total_employees"`
	TotalBasicSalary decimal.Decimal `json:"total_basic_salary"`
	TotalOvertime    decimal.Decimal `json:"total_overtime"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	TotalGrossSalary decimal.Decimal `json:"total_gross_salary"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	DraftCount       int             `json:"draft_count"`
	ApprovedCount    int             `json:"approved_count"`
	PaidCount        int             `json:"paid_count"`
}
