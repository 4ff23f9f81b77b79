package postgresql

import (
	"context"
	"fmt"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/employee"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, work_schedule_id, employee_code, full_name,
			   salary_type, base_salary, daily_wage, hourly_rate,
			   hire_date, employment_status, created_at, updated_at, deleted_at
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&e.ID, &e.CompanyID, &e.WorkScheduleID, &e.EmployeeCode, &e.FullName,
		&e.SalaryType, &e.BaseSalary, &e.DailyWage, &e.HourlyRate,
		&e.HireDate, &e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, work_schedule_id, employee_code, full_name,
			   salary_type, base_salary, daily_wage, hourly_rate,
			   hire_date, employment_status, created_at, updated_at, deleted_at
		FROM employees
		WHERE company_id = $1 AND employment_status = 'active' AND deleted_at IS NULL
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.WorkScheduleID, &e.EmployeeCode, &e.FullName,
			&e.SalaryType, &e.BaseSalary, &e.DailyWage, &e.HourlyRate,
			&e.HireDate, &e.EmploymentStatus, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
