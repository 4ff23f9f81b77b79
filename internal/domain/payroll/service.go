package payroll

import (
	"context"
)

// PayrollService defines business logic for payroll operations
type PayrollService interface {
	// Calculate derives a draft payroll record for one employee and period
	// from their salary configuration and attendance statistics
	Calculate(ctx context.Context, req CalculateRequest) (RecordResponse, error)

	// GetRecord retrieves a payroll record by ID
	GetRecord(ctx context.Context, id string) (RecordResponse, error)

	// ListRecords retrieves payroll records with filters
	ListRecords(ctx context.Context, filter Filter) (ListRecordResponse, error)

	// UpdateRecord edits caller-supplied amounts and rederives gross/net
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)

	// UpdateStatus moves a record along draft -> approved -> paid
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (RecordResponse, error)

	// DeleteRecord removes a record (draft/approved only)
	DeleteRecord(ctx context.Context, id string) error

	// GetSummary aggregates all records overlapping a period
	GetSummary(ctx context.Context, start, end string) (SummaryResponse, error)

	// GetSettings returns the company rule set, defaults when never saved
	GetSettings(ctx context.Context) (SettingsResponse, error)

	// UpdateSettings upserts the company rule set
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
