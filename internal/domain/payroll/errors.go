package payroll

import "errors"

var (
	// ErrSettingsNotFound is returned by GetSettings when the company has
	// never saved a rule set; callers fall back to DefaultSettings.
	ErrSettingsNotFound = errors.New("payroll settings not found")

	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrInvalidSalaryConfiguration = errors.New("employee salary configuration is missing the required rate")
	ErrImmutableRecord            = errors.New("paid payroll record cannot be modified")
	ErrInvalidStatusTransition    = errors.New("payroll status can only move draft -> approved -> paid")
	ErrInvalidPeriod              = errors.New("invalid pay period")
)
