package main

import (
	"fmt"
	"net/http"

	"github.com/bizdesk/bizdesk-backend-go/internal/config"
	appHTTP "github.com/bizdesk/bizdesk-backend-go/internal/handler/http"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/cron"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/database"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/jwt"
	"github.com/bizdesk/bizdesk-backend-go/internal/repository/postgresql"
	attendanceService "github.com/bizdesk/bizdesk-backend-go/internal/service/attendance"
	payrollService "github.com/bizdesk/bizdesk-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		workScheduleRepo,
	)
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		attendanceRepo,
		employeeRepo,
		workScheduleRepo,
		holidayRepo,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, attendanceHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
