package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/database"
	"github.com/frahmantamala/hr-records/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-records/internal/employee/postgres"
	"github.com/frahmantamala/hr-records/internal/storage"
	"github.com/frahmantamala/hr-records/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/hr-records/internal/timesheet/postgres"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/frahmantamala/hr-records/internal/transport/middleware"
	"github.com/frahmantamala/hr-records/internal/transport/rest"
	"github.com/frahmantamala/hr-records/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the employee and timesheet pages`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *database.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.DB.Close()
			os.Exit(1)
		}
	}

	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, buildRoutes(config, db, lg))

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

func buildRoutes(cfg *internal.Config, db *database.DB, lg *slog.Logger) rest.Routes {
	photos := storage.NewLocalPhotoStore(cfg.Uploads.Root, cfg.Uploads.PhotoDir, lg)
	baseHandler := transport.NewBaseHandler(lg)

	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(db.ORM), photos, lg).
		WithQueryTimeout(cfg.Database.QueryTimeout)
	timesheetService := timesheet.NewService(timesheetPostgres.NewTimesheetRepository(db.Store), lg).
		WithQueryTimeout(cfg.Database.QueryTimeout)

	routes := rest.Routes{
		Store:            db.Store,
		EmployeeHandler:  employee.NewHandler(baseHandler, employeeService, cfg.Uploads.MaxBytes),
		TimesheetHandler: timesheet.NewHandler(baseHandler, timesheetService),
		PhotoStore:       photos,
		Uploads:          photos.Handler(),
		UploadsPrefix:    photos.Prefix(),
		MaxBodyBytes:     cfg.Uploads.MaxBytes,
		Logger:           lg,
	}
	if cfg.Security.CSRFKey != "" {
		routes.CSRF = middleware.CSRF([]byte(cfg.Security.CSRFKey), cfg.Security.SecureCookies, lg)
	} else {
		lg.Warn("csrf protection disabled; set security.csrf_key to enable it")
	}
	return routes
}
