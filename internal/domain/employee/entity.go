package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	CompanyID        string
	WorkScheduleID   string
	EmployeeCode     string
	FullName         string
	SalaryType       SalaryType
	BaseSalary       *decimal.Decimal
	DailyWage        *decimal.Decimal
	HourlyRate       *decimal.Decimal
	HireDate         time.Time
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type SalaryType string

const (
	SalaryTypeMonthly SalaryType = "monthly"
	SalaryTypeDaily   SalaryType = "daily"
	SalaryTypeHourly  SalaryType = "hourly"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
