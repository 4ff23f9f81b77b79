package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/payroll"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SETTINGS ==========

func (r *payrollRepository) GetSettings(ctx context.Context, companyID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, overtime_multiplier, standard_day_minutes,
			   standard_monthly_hours, created_at, updated_at
		FROM payroll_settings
		WHERE company_id = $1
	`

	var s payroll.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.OvertimeMultiplier, &s.StandardDayMinutes,
		&s.StandardMonthlyHours, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Settings{}, payroll.ErrSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) UpsertSettings(ctx context.Context, settings payroll.Settings) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (
			id, company_id, overtime_multiplier, standard_day_minutes, standard_monthly_hours
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id) DO UPDATE SET
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			standard_day_minutes = EXCLUDED.standard_day_minutes,
			standard_monthly_hours = EXCLUDED.standard_monthly_hours,
			updated_at = NOW()
		RETURNING id, company_id, overtime_multiplier, standard_day_minutes,
			standard_monthly_hours, created_at, updated_at
	`

	var s payroll.Settings
	err := q.QueryRow(ctx, query,
		uuid.NewString(), settings.CompanyID, settings.OvertimeMultiplier,
		settings.StandardDayMinutes, settings.StandardMonthlyHours,
	).Scan(
		&s.ID, &s.CompanyID, &s.OvertimeMultiplier, &s.StandardDayMinutes,
		&s.StandardMonthlyHours, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return s, nil
}

// ========== RECORDS ==========

const payrollColumns = `
	p.id, p.employee_id, p.company_id, p.period_start, p.period_end,
	p.basic_salary, p.overtime_amount, p.bonuses, p.reimbursements, p.gross_salary,
	p.tax_deduction, p.insurance_deduction, p.other_deductions, p.total_deductions,
	p.net_salary, p.needs_review,
	p.total_working_days, p.total_present_days, p.total_overtime_minutes,
	p.status, p.payment_date, p.notes, p.created_at, p.updated_at`

func scanPayrollRecord(row pgx.Row, rec *payroll.Record, withEmployee bool) error {
	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.BasicSalary, &rec.OvertimeAmount, &rec.Bonuses, &rec.Reimbursements, &rec.GrossSalary,
		&rec.TaxDeduction, &rec.InsuranceDeduction, &rec.OtherDeductions, &rec.TotalDeductions,
		&rec.NetSalary, &rec.NeedsReview,
		&rec.TotalWorkingDays, &rec.TotalPresentDays, &rec.TotalOvertimeMinutes,
		&rec.Status, &rec.PaymentDate, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &rec.EmployeeName, &rec.EmployeeCode)
	}
	return row.Scan(dest...)
}

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	record.ID = uuid.NewString()

	query := `
		INSERT INTO payroll_records (
			id, employee_id, company_id, period_start, period_end,
			basic_salary, overtime_amount, bonuses, reimbursements, gross_salary,
			tax_deduction, insurance_deduction, other_deductions, total_deductions,
			net_salary, needs_review,
			total_working_days, total_present_days, total_overtime_minutes,
			status, payment_date, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.CompanyID, record.PeriodStart, record.PeriodEnd,
		record.BasicSalary, record.OvertimeAmount, record.Bonuses, record.Reimbursements, record.GrossSalary,
		record.TaxDeduction, record.InsuranceDeduction, record.OtherDeductions, record.TotalDeductions,
		record.NetSalary, record.NeedsReview,
		record.TotalWorkingDays, record.TotalPresentDays, record.TotalOvertimeMinutes,
		record.Status, record.PaymentDate, record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Record{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string, companyID string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `,
			   e.full_name AS employee_name,
			   e.employee_code AS employee_code
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1 AND p.company_id = $2
	`

	var rec payroll.Record
	err := scanPayrollRecord(q.QueryRow(ctx, query, id, companyID), &rec, true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time, companyID string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		WHERE p.employee_id = $1
		  AND p.period_start = $2
		  AND p.period_end = $3
		  AND p.company_id = $4
	`

	var rec payroll.Record
	err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, start, end, companyID), &rec, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record by period: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ListRecords(ctx context.Context, companyID string, filter payroll.Filter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "p.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	// Period overlap: record periods intersecting [start_date, end_date]
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND p.period_end >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND p.period_start <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM payroll_records p WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+payrollColumns+`,
			   e.full_name AS employee_name,
			   e.employee_code AS employee_code
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY p.period_start DESC, e.full_name
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		var rec payroll.Record
		if err := scanPayrollRecord(rows, &rec, true); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

func (r *payrollRepository) UpdateRecord(ctx context.Context, record payroll.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			basic_salary = $1,
			overtime_amount = $2,
			bonuses = $3,
			reimbursements = $4,
			gross_salary = $5,
			tax_deduction = $6,
			insurance_deduction = $7,
			other_deductions = $8,
			total_deductions = $9,
			net_salary = $10,
			needs_review = $11,
			total_working_days = $12,
			total_present_days = $13,
			total_overtime_minutes = $14,
			status = $15,
			payment_date = $16,
			notes = $17,
			updated_at = NOW()
		WHERE id = $18 AND company_id = $19
	`

	tag, err := q.Exec(ctx, query,
		record.BasicSalary, record.OvertimeAmount, record.Bonuses, record.Reimbursements, record.GrossSalary,
		record.TaxDeduction, record.InsuranceDeduction, record.OtherDeductions, record.TotalDeductions,
		record.NetSalary, record.NeedsReview,
		record.TotalWorkingDays, record.TotalPresentDays, record.TotalOvertimeMinutes,
		record.Status, record.PaymentDate, record.Notes,
		record.ID, record.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}

func (r *payrollRepository) DeleteRecord(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetSummary(ctx context.Context, companyID string, start, end time.Time) (payroll.SummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(DISTINCT p.employee_id),
			COALESCE(SUM(p.basic_salary), 0),
			COALESCE(SUM(p.overtime_amount), 0),
			COALESCE(SUM(p.total_deductions), 0),
			COALESCE(SUM(p.gross_salary), 0),
			COALESCE(SUM(p.net_salary), 0),
			COUNT(*) FILTER (WHERE p.status = 'draft'),
			COUNT(*) FILTER (WHERE p.status = 'approved'),
			COUNT(*) FILTER (WHERE p.status = 'paid')
		FROM payroll_records p
		WHERE p.company_id = $1
		  AND p.period_end >= $2
		  AND p.period_start <= $3
	`

	var summary payroll.SummaryResponse
	err := q.QueryRow(ctx, query, companyID, start, end).Scan(
		&summary.TotalEmployees,
		&summary.TotalBasicSalary,
		&summary.TotalOvertime,
		&summary.TotalDeductions,
		&summary.TotalGrossSalary,
		&summary.TotalNetSalary,
		&summary.DraftCount,
		&summary.ApprovedCount,
		&summary.PaidCount,
	)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.PeriodStart = start.Format("2006-01-02")
	summary.PeriodEnd = end.Format("2006-01-02")

	return summary, nil
}
