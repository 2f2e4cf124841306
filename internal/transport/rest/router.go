package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-records/internal/employee"
	"github.com/frahmantamala/hr-records/internal/timesheet"
	"github.com/frahmantamala/hr-records/internal/transport/middleware"
	"github.com/frahmantamala/hr-records/internal/transport/swagger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Routes is everything RegisterAllRoutes mounts. Nil handlers are skipped.
type Routes struct {
	Store            Pinger
	EmployeeHandler  *employee.Handler
	TimesheetHandler *timesheet.Handler
	// PhotoStore is pinged by /health next to Store.
	PhotoStore Pinger
	// Uploads serves stored photos under UploadsPrefix.
	Uploads       http.Handler
	UploadsPrefix string
	// MaxBodyBytes caps form request bodies before CSRF parses them.
	MaxBodyBytes int64
	// CSRF wraps the form routes when set.
	CSRF   func(http.Handler) http.Handler
	Logger *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, routes Routes) {
	lg := routes.Logger
	if lg == nil {
		lg = slog.Default()
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(lg))
	router.Use(middleware.RecoveryMiddleware(lg))
	router.Use(chiMiddleware.StripSlashes)

	if routes.Store != nil {
		components := map[string]Pinger{"postgres": routes.Store}
		if routes.PhotoStore != nil {
			components["uploads"] = routes.PhotoStore
		}
		healthHandler := NewHealthHandler(components)
		router.Get("/health", healthHandler.healthCheckHandler)
		router.Get("/ping", healthHandler.pingHandler)
	}

	router.Get("/openapi.yml", swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	if routes.Uploads != nil {
		prefix := routes.UploadsPrefix
		if prefix == "" {
			prefix = "/uploads/"
		}
		router.Handle(prefix+"*", routes.Uploads)
	}

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/employees", http.StatusFound)
	})

	router.Group(func(fr chi.Router) {
		if routes.MaxBodyBytes > 0 {
			fr.Use(chiMiddleware.RequestSize(routes.MaxBodyBytes))
		}
		if routes.CSRF != nil {
			fr.Use(routes.CSRF)
		}

		if h := routes.EmployeeHandler; h != nil {
			fr.Route("/employees", func(er chi.Router) {
				er.Get("/", h.ListEmployees)              // GET /employees
				er.Get("/export", h.ExportEmployees)      // GET /employees/export
				er.Get("/new", h.NewEmployeeForm)         // GET /employees/new
				er.Post("/new", h.CreateEmployee)         // POST /employees/new
				er.Get("/{id:[0-9]+}", h.GetEmployee)     // GET /employees/:id
				er.Post("/{id:[0-9]+}", h.UpdateEmployee) // POST /employees/:id
			})
		}

		if h := routes.TimesheetHandler; h != nil {
			fr.Route("/timesheets", func(tr chi.Router) {
				tr.Get("/", h.ListTimesheets)              // GET /timesheets
				tr.Get("/new", h.NewTimesheetForm)         // GET /timesheets/new
				tr.Post("/new", h.CreateTimesheet)         // POST /timesheets/new
				tr.Get("/{id:[0-9]+}", h.GetTimesheet)     // GET /timesheets/:id
				tr.Post("/{id:[0-9]+}", h.UpdateTimesheet) // POST /timesheets/:id
			})
		}
	})
}
