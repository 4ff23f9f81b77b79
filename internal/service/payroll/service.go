package payroll

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/employee"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/payroll"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/schedule"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	schedule.WorkScheduleRepository
	schedule.HolidayRepository
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.WorkScheduleRepository,
	holidayRepo schedule.HolidayRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository:      payrollRepo,
		AttendanceRepository:   attendanceRepo,
		EmployeeRepository:     employeeRepo,
		WorkScheduleRepository: scheduleRepo,
		HolidayRepository:      holidayRepo,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func toRecordResponse(rec payroll.Record) payroll.RecordResponse {
	resp := payroll.RecordResponse{
		ID:          rec.ID,
		EmployeeID:  rec.EmployeeID,
		PeriodStart: rec.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   rec.PeriodEnd.Format("2006-01-02"),

		BasicSalary:    rec.BasicSalary,
		OvertimeAmount: rec.OvertimeAmount,
		Bonuses:        rec.Bonuses,
		Reimbursements: rec.Reimbursements,
		GrossSalary:    rec.GrossSalary,

		TaxDeduction:       rec.TaxDeduction,
		InsuranceDeduction: rec.InsuranceDeduction,
		OtherDeductions:    rec.OtherDeductions,
		TotalDeductions:    rec.TotalDeductions,

		NetSalary:   rec.NetSalary,
		NeedsReview: rec.NeedsReview,

		TotalWorkingDays:   rec.TotalWorkingDays,
		TotalPresentDays:   rec.TotalPresentDays,
		TotalOvertimeHours: math.Round(float64(rec.TotalOvertimeMinutes)/60*100) / 100,

		Status: string(rec.Status),
		Notes:  rec.Notes,
	}
	if rec.PaymentDate != nil {
		formatted := rec.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &formatted
	}
	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	if rec.EmployeeCode != nil {
		resp.EmployeeCode = *rec.EmployeeCode
	}
	return resp
}

// settingsOrDefault loads the company rule set, falling back to defaults when
// the company has never saved one.
func (s *PayrollServiceImpl) settingsOrDefault(ctx context.Context, companyID string) (payroll.Settings, error) {
	settings, err := s.PayrollRepository.GetSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrSettingsNotFound) {
			return payroll.DefaultSettings(companyID), nil
		}
		return payroll.Settings{}, err
	}
	return settings, nil
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.PeriodStart)
	end, _ := time.Parse("2006-01-02", req.PeriodEnd)

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	// Reject a duplicate period up front; the unique key still backstops
	// concurrent inserts.
	if _, err := s.PayrollRepository.GetRecordByEmployeePeriod(ctx, emp.ID, start, end, companyID); err == nil {
		return payroll.RecordResponse{}, payroll.ErrPayrollRecordAlreadyExists
	} else if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
		return payroll.RecordResponse{}, err
	}

	settings, err := s.settingsOrDefault(ctx, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	sched, err := s.WorkScheduleRepository.GetByEmployeeID(ctx, emp.ID, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	holidays, err := s.HolidayRepository.ListByRange(ctx, companyID, start, end)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	records, err := s.AttendanceRepository.ListRange(ctx, companyID, &emp.ID, start, end)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	stats := attendance.Summarize(records)

	workingDays := WorkingDaysInPeriod(sched, holidays, start, end)

	basicSalary, err := BasicSalary(emp, stats, workingDays)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	overtimeAmount, err := OvertimeAmount(emp, settings, stats)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record := payroll.Record{
		EmployeeID:  emp.ID,
		CompanyID:   companyID,
		PeriodStart: start,
		PeriodEnd:   end,

		BasicSalary:    basicSalary,
		OvertimeAmount: overtimeAmount,
		Bonuses:        valueOrZero(req.Bonuses),
		Reimbursements: valueOrZero(req.Reimbursements),

		TaxDeduction:       valueOrZero(req.TaxDeduction),
		InsuranceDeduction: valueOrZero(req.InsuranceDeduction),
		OtherDeductions:    valueOrZero(req.OtherDeductions),

		TotalWorkingDays:     workingDays,
		TotalPresentDays:     stats.WorkedDays(),
		TotalOvertimeMinutes: stats.TotalOvertimeMinutes,

		Status: payroll.StatusDraft,
		Notes:  req.Notes,
	}
	record.Recalculate()

	created, err := s.PayrollRepository.CreateRecord(ctx, record)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return toRecordResponse(created), nil
}

// GetRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.RecordResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.PayrollRepository.GetRecordByID(ctx, id, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

// ListRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.Filter) (payroll.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListRecordResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.ListRecordResponse{}, err
	}

	records, total, err := s.PayrollRepository.ListRecords(ctx, companyID, filter)
	if err != nil {
		return payroll.ListRecordResponse{}, err
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}

	return payroll.ListRecordResponse{
		Data:       responses,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateRecord(ctx context.Context, req payroll.UpdateRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.PayrollRepository.GetRecordByID(ctx, req.ID, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	// A paid record is settled money. Only its payment date may still move.
	if record.Status == payroll.StatusPaid {
		touchesAmounts := req.Bonuses != nil || req.Reimbursements != nil ||
			req.TaxDeduction != nil || req.InsuranceDeduction != nil ||
			req.OtherDeductions != nil || req.Notes != nil
		if touchesAmounts {
			return payroll.RecordResponse{}, payroll.ErrImmutableRecord
		}
		if req.PaymentDate != nil {
			paymentDate, _ := time.Parse("2006-01-02", *req.PaymentDate)
			record.PaymentDate = &paymentDate
			if err := s.PayrollRepository.UpdateRecord(ctx, record); err != nil {
				return payroll.RecordResponse{}, err
			}
		}
		return toRecordResponse(record), nil
	}

	if req.Bonuses != nil {
		record.Bonuses = *req.Bonuses
	}
	if req.Reimbursements != nil {
		record.Reimbursements = *req.Reimbursements
	}
	if req.TaxDeduction != nil {
		record.TaxDeduction = *req.TaxDeduction
	}
	if req.InsuranceDeduction != nil {
		record.InsuranceDeduction = *req.InsuranceDeduction
	}
	if req.OtherDeductions != nil {
		record.OtherDeductions = *req.OtherDeductions
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	if req.PaymentDate != nil {
		paymentDate, _ := time.Parse("2006-01-02", *req.PaymentDate)
		record.PaymentDate = &paymentDate
	}
	record.Recalculate()

	if err := s.PayrollRepository.UpdateRecord(ctx, record); err != nil {
		return payroll.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

// UpdateStatus implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, req payroll.UpdateStatusRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.PayrollRepository.GetRecordByID(ctx, req.ID, companyID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	next := payroll.Status(req.Status)
	if !record.Status.CanTransitionTo(next) {
		return payroll.RecordResponse{}, payroll.ErrInvalidStatusTransition
	}

	record.Status = next
	if next == payroll.StatusPaid {
		paymentDate := time.Now().UTC().Truncate(24 * time.Hour)
		if req.PaymentDate != nil {
			paymentDate, _ = time.Parse("2006-01-02", *req.PaymentDate)
		}
		record.PaymentDate = &paymentDate
	}

	if err := s.PayrollRepository.UpdateRecord(ctx, record); err != nil {
		return payroll.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

// DeleteRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	record, err := s.PayrollRepository.GetRecordByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if record.Status == payroll.StatusPaid {
		return payroll.ErrImmutableRecord
	}

	return s.PayrollRepository.DeleteRecord(ctx, id, companyID)
}

// GetSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSummary(ctx context.Context, start, end string) (payroll.SummaryResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return payroll.SummaryResponse{}, payroll.ErrInvalidPeriod
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return payroll.SummaryResponse{}, payroll.ErrInvalidPeriod
	}
	if endDate.Before(startDate) {
		return payroll.SummaryResponse{}, payroll.ErrInvalidPeriod
	}

	return s.PayrollRepository.GetSummary(ctx, companyID, startDate, endDate)
}

// GetSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSettings(ctx context.Context) (payroll.SettingsResponse, error) {
	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.settingsOrDefault(ctx, companyID)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	return payroll.SettingsResponse{
		ID:                   settings.ID,
		CompanyID:            settings.CompanyID,
		OvertimeMultiplier:   settings.OvertimeMultiplier,
		StandardDayMinutes:   settings.StandardDayMinutes,
		StandardMonthlyHours: settings.StandardMonthlyHours,
	}, nil
}

// UpdateSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.settingsOrDefault(ctx, companyID)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	if req.OvertimeMultiplier != nil {
		settings.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.StandardDayMinutes != nil {
		settings.StandardDayMinutes = *req.StandardDayMinutes
	}
	if req.StandardMonthlyHours != nil {
		settings.StandardMonthlyHours = *req.StandardMonthlyHours
	}

	saved, err := s.PayrollRepository.UpsertSettings(ctx, settings)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	return payroll.SettingsResponse{
		ID:                   saved.ID,
		CompanyID:            saved.CompanyID,
		OvertimeMultiplier:   saved.OvertimeMultiplier,
		StandardDayMinutes:   saved.StandardDayMinutes,
		StandardMonthlyHours: saved.StandardMonthlyHours,
	}, nil
}
