package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bizdesk/bizdesk-backend-go/internal/domain/attendance"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/employee"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/payroll"
	"github.com/bizdesk/bizdesk-backend-go/internal/domain/schedule"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "company-1"

func authedContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	tok, _, err := ja.Encode(map[string]interface{}{
		"company_id": companyID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

// ========== FAKES ==========

type fakePayrollRepo struct {
	settings map[string]payroll.Settings
	records  map[string]payroll.Record
	nextID   int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		settings: make(map[string]payroll.Settings),
		records:  make(map[string]payroll.Record),
	}
}

func (f *fakePayrollRepo) GetSettings(_ context.Context, companyID string) (payroll.Settings, error) {
	s, ok := f.settings[companyID]
	if !ok {
		return payroll.Settings{}, payroll.ErrSettingsNotFound
	}
	return s, nil
}

func (f *fakePayrollRepo) UpsertSettings(_ context.Context, settings payroll.Settings) (payroll.Settings, error) {
	if settings.ID == "" {
		settings.ID = "settings-" + settings.CompanyID
	}
	f.settings[settings.CompanyID] = settings
	return settings, nil
}

func (f *fakePayrollRepo) periodKey(r payroll.Record) string {
	return r.EmployeeID + "|" + r.PeriodStart.Format("2006-01-02") + "|" + r.PeriodEnd.Format("2006-01-02")
}

func (f *fakePayrollRepo) CreateRecord(_ context.Context, record payroll.Record) (payroll.Record, error) {
	for _, existing := range f.records {
		if f.periodKey(existing) == f.periodKey(record) {
			return payroll.Record{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	f.nextID++
	record.ID = fmt.Sprintf("pay-%d", f.nextID)
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepo) GetRecordByID(_ context.Context, id string, companyID string) (payroll.Record, error) {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return payroll.Record{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (f *fakePayrollRepo) GetRecordByEmployeePeriod(_ context.Context, employeeID string, start, end time.Time, companyID string) (payroll.Record, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.CompanyID == companyID &&
			rec.PeriodStart.Equal(start) && rec.PeriodEnd.Equal(end) {
			return rec, nil
		}
	}
	return payroll.Record{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) ListRecords(_ context.Context, companyID string, _ payroll.Filter) ([]payroll.Record, int64, error) {
	var out []payroll.Record
	for _, rec := range f.records {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) UpdateRecord(_ context.Context, record payroll.Record) error {
	if _, ok := f.records[record.ID]; !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakePayrollRepo) DeleteRecord(_ context.Context, id string, companyID string) error {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return payroll.ErrPayrollRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakePayrollRepo) GetSummary(_ context.Context, companyID string, start, end time.Time) (payroll.SummaryResponse, error) {
	summary := payroll.SummaryResponse{
		PeriodStart:      start.Format("2006-01-02"),
		PeriodEnd:        end.Format("2006-01-02"),
		TotalBasicSalary: decimal.Zero,
		TotalOvertime:    decimal.Zero,
		TotalDeductions:  decimal.Zero,
		TotalGrossSalary: decimal.Zero,
		TotalNetSalary:   decimal.Zero,
	}
	seen := map[string]struct{}{}
	for _, rec := range f.records {
		if rec.CompanyID != companyID || rec.PeriodEnd.Before(start) || rec.PeriodStart.After(end) {
			continue
		}
		seen[rec.EmployeeID] = struct{}{}
		summary.TotalBasicSalary = summary.TotalBasicSalary.Add(rec.BasicSalary)
		summary.TotalOvertime = summary.TotalOvertime.Add(rec.OvertimeAmount)
		summary.TotalDeductions = summary.TotalDeductions.Add(rec.TotalDeductions)
		summary.TotalGrossSalary = summary.TotalGrossSalary.Add(rec.GrossSalary)
		summary.TotalNetSalary = summary.TotalNetSalary.Add(rec.NetSalary)
		switch rec.Status {
		case payroll.StatusDraft:
			summary.DraftCount++
		case payroll.StatusApproved:
			summary.ApprovedCount++
		case payroll.StatusPaid:
			summary.PaidCount++
		}
	}
	summary.TotalEmployees = len(seen)
	return summary, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Attendance
}

func (f *fakeAttendanceRepo) Create(_ context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, _ string, _ string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time, _ string) (*attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) GetOpenRecord(_ context.Context, _ string, _ time.Time, _ string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Update(_ context.Context, _ attendance.Attendance) error { return nil }

func (f *fakeAttendanceRepo) List(_ context.Context, _ attendance.AttendanceFilter, _ string) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (f *fakeAttendanceRepo) ListRange(_ context.Context, companyID string, employeeID *string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.CompanyID != companyID {
			continue
		}
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, _ string, _ string) error { return nil }

func (f *fakeAttendanceRepo) CloseStaleOpenSessions(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAttendanceRepo) InsertAbsentForDate(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, _ string) ([]employee.Employee, error) {
	return nil, nil
}

type fakeScheduleRepo struct {
	byEmployee map[string]schedule.WorkSchedule
}

func (f *fakeScheduleRepo) GetByEmployeeID(_ context.Context, employeeID string, _ string) (schedule.WorkSchedule, error) {
	s, ok := f.byEmployee[employeeID]
	if !ok {
		return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
	}
	return s, nil
}

func (f *fakeScheduleRepo) GetByID(_ context.Context, _ string, _ string) (schedule.WorkSchedule, error) {
	return schedule.WorkSchedule{}, schedule.ErrWorkScheduleNotFound
}

type fakeHolidayRepo struct {
	holidays []schedule.Holiday
}

func (f *fakeHolidayRepo) ListByRange(_ context.Context, companyID string, from, to time.Time) ([]schedule.Holiday, error) {
	var out []schedule.Holiday
	for _, h := range f.holidays {
		if h.CompanyID == companyID && !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

// ========== SETUP ==========

type testEnv struct {
	svc     payroll.PayrollService
	payRepo *fakePayrollRepo
	attRepo *fakeAttendanceRepo
}

func newTestEnv() *testEnv {
	monthly := decimal.NewFromInt(3000)
	payRepo := newFakePayrollRepo()
	attRepo := &fakeAttendanceRepo{}
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {
			ID:               "emp-1",
			CompanyID:        testCompanyID,
			SalaryType:       employee.SalaryTypeMonthly,
			BaseSalary:       &monthly,
			EmploymentStatus: employee.EmploymentStatusActive,
		},
	}}
	schedRepo := &fakeScheduleRepo{byEmployee: map[string]schedule.WorkSchedule{
		"emp-1": {
			ID:           "sched-1",
			CompanyID:    testCompanyID,
			StartMinute:  9 * 60,
			EndMinute:    18 * 60,
			BreakMinutes: 60,
			Workdays:     schedule.WorkdaysMonToFri,
		},
	}}
	holidayRepo := &fakeHolidayRepo{}

	return &testEnv{
		svc:     NewPayrollService(payRepo, attRepo, empRepo, schedRepo, holidayRepo),
		payRepo: payRepo,
		attRepo: attRepo,
	}
}

// seedAttendance marks every scheduled weekday in June 2025 up to `days`
// days as present with a standard 8h of work.
func (e *testEnv) seedAttendance(days int) {
	work := 480
	added := 0
	for d := 1; d <= 30 && added < days; d++ {
		day := time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		e.attRepo.records = append(e.attRepo.records, attendance.Attendance{
			EmployeeID:  "emp-1",
			CompanyID:   testCompanyID,
			Date:        day,
			Status:      attendance.StatusPresent,
			WorkMinutes: &work,
		})
		added++
	}
}

// ========== TESTS ==========

func TestCalculateMonthlyDraft(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	env.seedAttendance(20)

	resp, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
	})
	require.NoError(t, err)

	// June 2025 has 21 scheduled weekdays; 20 were attended.
	assert.Equal(t, payroll.StatusDraft, payroll.Status(resp.Status))
	assert.Equal(t, 21, resp.TotalWorkingDays)
	assert.Equal(t, 20, resp.TotalPresentDays)
	want := decimal.NewFromInt(3000).
		Mul(decimal.NewFromInt(20)).
		Div(decimal.NewFromInt(21)).
		Round(2)
	assert.True(t, resp.BasicSalary.Equal(want), "got %s want %s", resp.BasicSalary, want)
	assert.True(t, resp.NetSalary.Equal(resp.GrossSalary))
	assert.False(t, resp.NeedsReview)
}

func TestCalculateAppliesExtrasAndDeductions(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	env.seedAttendance(21)

	bonus := decimal.NewFromInt(200)
	tax := decimal.NewFromInt(300)
	resp, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		EmployeeID:   "emp-1",
		PeriodStart:  "2025-06-01",
		PeriodEnd:    "2025-06-30",
		Bonuses:      &bonus,
		TaxDeduction: &tax,
	})
	require.NoError(t, err)

	assert.True(t, resp.GrossSalary.Equal(decimal.NewFromInt(3200)), "got %s", resp.GrossSalary)
	assert.True(t, resp.TotalDeductions.Equal(tax))
	assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(2900)), "got %s", resp.NetSalary)
}

func TestCalculateExcessiveDeductionsFlagsReview(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	env.seedAttendance(21)

	tax := decimal.NewFromInt(5000)
	resp, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		EmployeeID:   "emp-1",
		PeriodStart:  "2025-06-01",
		PeriodEnd:    "2025-06-30",
		TaxDeduction: &tax,
	})
	require.NoError(t, err)

	assert.True(t, resp.NetSalary.IsNegative())
	assert.True(t, resp.NeedsReview)
}

func TestCalculateDuplicatePeriodFails(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	env.seedAttendance(21)

	req := payroll.CalculateRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
	}
	_, err := env.svc.Calculate(ctx, req)
	require.NoError(t, err)

	_, err = env.svc.Calculate(ctx, req)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)
}

func TestCalculateMissingSalaryConfiguration(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)

	payRepo := env.payRepo
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-2": {
			ID:         "emp-2",
			CompanyID:  testCompanyID,
			SalaryType: employee.SalaryTypeMonthly, // no BaseSalary set
		},
	}}
	schedRepo := &fakeScheduleRepo{byEmployee: map[string]schedule.WorkSchedule{
		"emp-2": {Workdays: schedule.WorkdaysMonToFri},
	}}
	svc := NewPayrollService(payRepo, env.attRepo, empRepo, schedRepo, &fakeHolidayRepo{})

	_, err := svc.Calculate(ctx, payroll.CalculateRequest{
		EmployeeID:  "emp-2",
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
	})
	assert.ErrorIs(t, err, payroll.ErrInvalidSalaryConfiguration)
}

func calculateDraft(t *testing.T, env *testEnv, ctx context.Context) payroll.RecordResponse {
	t.Helper()
	env.seedAttendance(21)
	resp, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-30",
	})
	require.NoError(t, err)
	return resp
}

func TestStatusLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	draft := calculateDraft(t, env, ctx)

	approved, err := env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{
		ID:     draft.ID,
		Status: "approved",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Nil(t, approved.PaymentDate)

	paid, err := env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{
		ID:     draft.ID,
		Status: "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)
}

func TestStatusCannotSkipOrRewind(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	draft := calculateDraft(t, env, ctx)

	// draft -> paid skips approval
	_, err := env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: draft.ID, Status: "paid"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)

	_, err = env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: draft.ID, Status: "approved"})
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: draft.ID, Status: "paid"})
	require.NoError(t, err)

	// paid -> draft is final
	_, err = env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: draft.ID, Status: "draft"})
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusTransition)
}

func TestPaidRecordIsImmutableExceptPaymentDate(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	draft := calculateDraft(t, env, ctx)

	_, err := env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: draft.ID, Status: "approved"})
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: draft.ID, Status: "paid"})
	require.NoError(t, err)

	bonus := decimal.NewFromInt(500)
	_, err = env.svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{
		ID:      draft.ID,
		Bonuses: &bonus,
	})
	assert.ErrorIs(t, err, payroll.ErrImmutableRecord)

	paymentDate := "2025-07-05"
	updated, err := env.svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{
		ID:          draft.ID,
		PaymentDate: &paymentDate,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, "2025-07-05", *updated.PaymentDate)
}

func TestUpdateRecordRecalculatesTotals(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	draft := calculateDraft(t, env, ctx)

	bonus := decimal.NewFromInt(500)
	tax := decimal.NewFromInt(100)
	updated, err := env.svc.UpdateRecord(ctx, payroll.UpdateRecordRequest{
		ID:           draft.ID,
		Bonuses:      &bonus,
		TaxDeduction: &tax,
	})
	require.NoError(t, err)

	wantGross := draft.BasicSalary.Add(bonus)
	assert.True(t, updated.GrossSalary.Equal(wantGross), "got %s want %s", updated.GrossSalary, wantGross)
	assert.True(t, updated.NetSalary.Equal(wantGross.Sub(tax)))
}

func TestDeletePaidRecordFails(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	draft := calculateDraft(t, env, ctx)

	err := env.svc.DeleteRecord(ctx, draft.ID)
	require.NoError(t, err)

	second := calculateDraft(t, env, ctx)
	_, err = env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: second.ID, Status: "approved"})
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, payroll.UpdateStatusRequest{ID: second.ID, Status: "paid"})
	require.NoError(t, err)

	err = env.svc.DeleteRecord(ctx, second.ID)
	assert.ErrorIs(t, err, payroll.ErrImmutableRecord)
}

func TestGetSettingsFallsBackToDefaults(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)

	settings, err := env.svc.GetSettings(ctx)
	require.NoError(t, err)

	assert.Equal(t, testCompanyID, settings.CompanyID)
	assert.True(t, settings.OvertimeMultiplier.Equal(decimal.NewFromFloat(1.5)))
	assert.Equal(t, 480, settings.StandardDayMinutes)
}

func TestUpdateSettingsPersists(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)

	multiplier := decimal.NewFromInt(2)
	saved, err := env.svc.UpdateSettings(ctx, payroll.UpdateSettingsRequest{
		OvertimeMultiplier: &multiplier,
	})
	require.NoError(t, err)
	assert.True(t, saved.OvertimeMultiplier.Equal(multiplier))

	// Defaults stay for the fields not supplied.
	assert.Equal(t, 480, saved.StandardDayMinutes)

	settings, err := env.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.OvertimeMultiplier.Equal(multiplier))
}

func TestGetSummary(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)
	calculateDraft(t, env, ctx)

	summary, err := env.svc.GetSummary(ctx, "2025-06-01", "2025-06-30")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalEmployees)
	assert.Equal(t, 1, summary.DraftCount)
	assert.True(t, summary.TotalBasicSalary.Equal(decimal.NewFromInt(3000)))
}

func TestGetSummaryInvalidPeriod(t *testing.T) {
	env := newTestEnv()
	ctx := authedContext(t, testCompanyID)

	_, err := env.svc.GetSummary(ctx, "2025-06-30", "2025-06-01")
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)

	_, err = env.svc.GetSummary(ctx, "bad-date", "2025-06-30")
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
}
