package http

import (
	"log/slog"
	"os"

	"github.com/bizdesk/bizdesk-backend-go/internal/handler/http/middleware"
	"github.com/bizdesk/bizdesk-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, attendanceHandler AttendanceHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "bizdesk-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/stats", attendanceHandler.Stats)

				r.Get("/", attendanceHandler.List)
				r.Post("/", attendanceHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", attendanceHandler.Get)
					r.Put("/", attendanceHandler.Update)
					r.Delete("/", attendanceHandler.Delete)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/calculate", payrollHandler.Calculate)
				r.Get("/summary", payrollHandler.Summary)

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", payrollHandler.GetSettings)
					r.Put("/", payrollHandler.UpdateSettings)
				})

				r.Get("/", payrollHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.Get)
					r.Put("/", payrollHandler.Update)
					r.Put("/status", payrollHandler.UpdateStatus)
					r.Delete("/", payrollHandler.Delete)
				})
			})
		})
	})
	return r
}
