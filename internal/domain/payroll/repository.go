package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access methods for payroll.
// All methods include companyID parameter to prevent cross-company data access.
// CreateRecord relies on the (employee_id, period_start, period_end) unique
// key: a concurrent duplicate insert surfaces as ErrPayrollRecordAlreadyExists.
type PayrollRepository interface {
	// Settings
	GetSettings(ctx context.Context, companyID string) (Settings, error)
	UpsertSettings(ctx context.Context, settings Settings) (Settings, error)

	// Records
	CreateRecord(ctx context.Context, record Record) (Record, error)
	GetRecordByID(ctx context.Context, id string, companyID string) (Record, error)
	GetRecordByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time, companyID string) (Record, error)
	ListRecords(ctx context.Context, companyID string, filter Filter) ([]Record, int64, error)
	UpdateRecord(ctx context.Context, record Record) error
	DeleteRecord(ctx context.Context, id string, companyID string) error

	// Aggregations
	GetSummary(ctx context.Context, companyID string, start, end time.Time) (SummaryResponse, error)
}
