package employee

import "context"

// EmployeeRepository defines data access methods for employees.
// All methods include companyID parameter to prevent cross-company data access.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// GetActiveByCompanyID retrieves all active employees of a company
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
}
